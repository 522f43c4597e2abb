package handler

import (
	"fmt"

	"vocabtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const qualityPrefix = "q_"

// Quality buttons shown under a card
var qualityButtons = []struct {
	text    string
	quality domain.Quality
}{
	{"❌ Не помню", domain.QualityForgot},
	{"🤔 С трудом", domain.QualityOK},
	{"✅ Помню", domain.QualityPerfect},
}

// handleStudy starts a session with up to the user's daily goal of new words
func (h *Handler) handleStudy(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	profile, err := h.services.Profile.Profile(ctx, userID)
	if err != nil {
		return h.fail(c, "load profile", userID, err)
	}

	words, err := h.services.Scheduler.NewWordsForLearning(ctx, userID, max(profile.DailyGoal, 1), nil)
	if err != nil {
		return h.fail(c, "pick new words", userID, err)
	}
	if len(words) == 0 {
		return notice(c, "🎉 Новых слов нет, ты выучил весь словарь!")
	}

	h.logger.Info("Study session started", zap.Int64("user_id", userID), zap.Int("cards", len(words)))
	return h.startCards(c, userID, words)
}

// handleReview starts a session with the words due for review
func (h *Handler) handleReview(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	due, err := h.services.Scheduler.WordsDueForReview(ctx, userID, h.now(), reviewBatch)
	if err != nil {
		return h.fail(c, "load due words", userID, err)
	}
	if len(due) == 0 {
		return notice(c, "👌 Сейчас нечего повторять")
	}

	ids := make([]int64, len(due))
	for i, rec := range due {
		ids[i] = rec.VocabularyID
	}
	items, err := h.services.Vocabulary.Items(ctx, ids)
	if err != nil {
		return h.fail(c, "load due vocabulary", userID, err)
	}

	// Keep the due order
	byID := make(map[int64]domain.VocabularyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	cards := make([]domain.VocabularyItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			cards = append(cards, item)
		}
	}

	h.logger.Info("Review session started", zap.Int64("user_id", userID), zap.Int("cards", len(cards)))
	return h.startCards(c, userID, cards)
}

func (h *Handler) startCards(c tele.Context, userID int64, cards []domain.VocabularyItem) error {
	state := &domain.StateData{
		State:   domain.StateStudying,
		Cards:   cards,
		ShownAt: h.now(),
	}
	h.SetState(userID, state)
	return h.show(c, renderCard(cards[0], len(cards)), cardMarkup(cards[0]))
}

func cardMarkup(item domain.VocabularyItem) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	row := make(tele.Row, 0, len(qualityButtons))
	for _, b := range qualityButtons {
		row = append(row, markup.Data(b.text, fmt.Sprintf("%s%d_%d", qualityPrefix, item.ID, b.quality)))
	}
	markup.Inline(row, markup.Row(btnCancel))
	return markup
}

// handleQuality records a self-graded recall of the current card
func (h *Handler) handleQuality(c tele.Context, data string) error {
	userID := c.Sender().ID

	unlock := h.lockUser(userID)
	defer unlock()

	args, err := callbackArgs(data, qualityPrefix, 2)
	if err != nil {
		h.logger.Warn("Malformed quality callback", zap.Error(err))
		return c.Respond()
	}
	vocabularyID, quality := args[0], domain.Quality(args[1])

	state := h.GetState(userID)
	if state.State != domain.StateStudying || len(state.Cards) == 0 || state.Cards[0].ID != vocabularyID {
		// Stale button from an earlier card
		return c.Respond(&tele.CallbackResponse{Text: "Эта карточка уже пройдена"})
	}

	ctx, cancel := requestContext()
	defer cancel()

	now := h.now()
	rec, err := h.services.Scheduler.ProcessStudyEvent(ctx, userID, vocabularyID, quality, now.Sub(state.ShownAt).Milliseconds())
	if err != nil {
		return h.fail(c, "process study event", userID, err)
	}

	feedback := fmt.Sprintf("%s: следующее повторение %s", state.Cards[0].Word, domain.ReviewDay(rec.NextReviewDate, now))
	if rec.Status == domain.StatusMastered {
		feedback += " 🏆"
	}

	remaining := state.Cards[1:]
	if len(remaining) == 0 {
		h.ResetState(userID)
		return h.show(c, feedback+"\n\n✅ Сессия завершена!", mainMenuMarkup())
	}

	h.SetState(userID, &domain.StateData{
		State:   domain.StateStudying,
		Cards:   remaining,
		ShownAt: now,
	})
	return h.show(c, feedback+"\n\n"+renderCard(remaining[0], len(remaining)), cardMarkup(remaining[0]))
}
