package handler

import (
	"fmt"
	"strings"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/service"
)

func renderCard(item domain.VocabularyItem, remaining int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 %s", item.Word)
	if item.Pronunciation != "" {
		fmt.Fprintf(&b, " [%s]", item.Pronunciation)
	}
	if item.PartOfSpeech != "" {
		fmt.Fprintf(&b, "\n%s", item.PartOfSpeech)
	}
	fmt.Fprintf(&b, "\n\n🔄 %s", item.Meaning)
	if item.Example != "" {
		fmt.Fprintf(&b, "\n💬 %s", item.Example)
	}
	fmt.Fprintf(&b, "\n\nКарточек осталось: %d", remaining)
	return b.String()
}

func renderQuestion(q domain.Question, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❓ Вопрос %d/%d\n\n%s", index+1, total, q.Prompt)
	if q.Pronunciation != "" && q.QuestionMode == domain.QuestionEnToNative {
		fmt.Fprintf(&b, " [%s]", q.Pronunciation)
	}
	for _, hint := range q.Hints {
		fmt.Fprintf(&b, "\n💡 %s", hint)
	}
	if q.AnswerMode == domain.AnswerText {
		b.WriteString("\n\nНапиши ответ сообщением")
	}
	return b.String()
}

func renderResult(r *domain.TestResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 Результат: %d из %d (%d%%)", r.Correct, r.Total, r.Percentage)

	var mistakes []string
	for _, res := range r.Results {
		if !res.Correct {
			mistakes = append(mistakes, "• "+res.CorrectAnswer)
		}
	}
	if len(mistakes) > 0 {
		b.WriteString("\n\nПравильные ответы на ошибки:\n")
		b.WriteString(strings.Join(mistakes, "\n"))
	}
	return b.String()
}

func renderProgress(p domain.UserProgress) string {
	if p.TotalLearned == 0 {
		return "📊 Ты ещё не начал учить слова. Начни с /study"
	}
	return fmt.Sprintf(
		"📊 Твой прогресс\n\n"+
			"Всего слов: %d\n"+
			"🏆 Освоено: %d (%d%%)\n"+
			"📚 Изучается: %d\n"+
			"🔁 На повторении: %d\n"+
			"⚠️ Сложные: %d\n\n"+
			"Точность ответов: %d%%",
		p.TotalLearned, p.Mastered, p.MasteryPercentage, p.Learning, p.Reviewing, p.Difficult, p.Accuracy,
	)
}

func renderTopics(views []domain.TopicProgressView) string {
	var b strings.Builder
	b.WriteString("🗂 Темы (нажми, чтобы выбрать):\n")
	for _, v := range views {
		fmt.Fprintf(&b, "\n%s: %d/%d слов, освоено %d%%", v.Topic.Name, v.Learned, v.VocabularyCount, v.MasteryPercentage)
	}
	return b.String()
}

func renderWords(p service.VocabularyPage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📖 Словарь, страница %d\n", p.Page)
	for _, item := range p.Items {
		fmt.Fprintf(&b, "\n%s: %s", item.Word, item.Meaning)
	}
	return b.String()
}
