package handler

import (
	"strings"

	"vocabtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const answerPrefix = "ans_"

// handleTest generates a test from the user's recent words
func (h *Handler) handleTest(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	questions, err := h.services.Quiz.GenerateTest(ctx, userID, domain.TestRequest{Count: testSize})
	if err != nil {
		return h.fail(c, "generate test", userID, err)
	}
	if len(questions) == 0 {
		return notice(c, "Сначала выучи несколько слов: /study")
	}

	state := &domain.StateData{
		State:     domain.StateWaitingAnswer,
		Questions: questions,
		ShownAt:   h.now(),
	}
	h.SetState(userID, state)

	h.logger.Info("Test started", zap.Int64("user_id", userID), zap.Int("questions", len(questions)))
	return h.show(c, renderQuestion(questions[0], 0, len(questions)), questionMarkup(questions[0]))
}

func questionMarkup(q domain.Question) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(q.Options)+1)
	for _, opt := range q.Options {
		rows = append(rows, markup.Row(markup.Data(opt.Text, answerPrefix+opt.ID)))
	}
	rows = append(rows, markup.Row(btnCancel))
	markup.Inline(rows...)
	return markup
}

// handleAnswer records a multiple-choice answer
func (h *Handler) handleAnswer(c tele.Context, data string) error {
	userID := c.Sender().ID

	unlock := h.lockUser(userID)
	defer unlock()

	state := h.GetState(userID)
	q, ok := state.CurrentQuestion()
	if state.State != domain.StateWaitingAnswer || !ok || q.AnswerMode != domain.AnswerChoice {
		return c.Respond(&tele.CallbackResponse{Text: "Этот вопрос уже закрыт"})
	}

	// Buttons of an earlier question may still be on screen
	optionID := strings.TrimPrefix(data, answerPrefix)
	if !hasOption(q, optionID) {
		return c.Respond(&tele.CallbackResponse{Text: "Этот вопрос уже закрыт"})
	}

	return h.recordAnswer(c, userID, domain.Answer{
		VocabularyID:     q.VocabularyID,
		QuestionMode:     q.QuestionMode,
		AnswerMode:       domain.AnswerChoice,
		SelectedOptionID: optionID,
	})
}

func hasOption(q domain.Question, id string) bool {
	for _, opt := range q.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// recordAnswer stores the answer to the current question and moves on.
// The caller holds the user's lock.
func (h *Handler) recordAnswer(c tele.Context, userID int64, answer domain.Answer) error {
	state := h.GetState(userID)
	next := &domain.StateData{
		State:     domain.StateWaitingAnswer,
		Questions: state.Questions,
		Current:   state.Current + 1,
		Answers:   append(append([]domain.Answer(nil), state.Answers...), answer),
		ShownAt:   h.now(),
	}

	if q, ok := next.CurrentQuestion(); ok {
		h.SetState(userID, next)
		return h.show(c, renderQuestion(q, next.Current, len(next.Questions)), questionMarkup(q))
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := h.services.Quiz.SubmitAnswers(ctx, userID, next.Answers)
	h.ResetState(userID)
	if err != nil {
		return h.fail(c, "submit answers", userID, err)
	}

	h.logger.Info("Test completed",
		zap.Int64("user_id", userID),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total),
	)
	return h.show(c, renderResult(result), mainMenuMarkup())
}
