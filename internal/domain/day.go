package domain

import "time"

var monthNames = []string{
	"", "янв", "фев", "мар", "апр", "мая", "июн",
	"июл", "авг", "сен", "окт", "ноя", "дек",
}

// ReviewDay renders a review date relative to now: "сегодня", "завтра",
// or a short date like "2 мар 2024". Dates are compared in now's location.
func ReviewDay(date, now time.Time) string {
	date = date.In(now.Location())

	if sameDay(date, now) || date.Before(now) {
		return "сегодня"
	}
	if sameDay(date, now.AddDate(0, 0, 1)) {
		return "завтра"
	}
	return date.Format("2 ") + monthNames[date.Month()] + date.Format(" 2006")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
