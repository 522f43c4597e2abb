package handler

import (
	"strings"

	"vocabtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	// Ensure user exists
	if err := h.services.Auth.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.services.Auth.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(internalError)
	}

	// If not authorized, check password
	if !authorized {
		if !h.services.Auth.CheckPassword(text) {
			return c.Send("Неверный пароль")
		}
		if err := h.services.Auth.AuthorizeUser(ctx, userID); err != nil {
			h.logger.Error("Failed to authorize user", zap.Error(err))
			return c.Send(internalError)
		}

		h.logger.Info("User authorized", zap.Int64("user_id", userID))
		h.ResetState(userID)
		return c.Send("✅ Доступ разрешён!\n\n"+mainMenuText, mainMenuMarkup())
	}

	// User is authorized, handle based on state
	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingAnswer:
		q, ok := state.CurrentQuestion()
		if !ok || q.AnswerMode != domain.AnswerText {
			return c.Send("Выбери вариант ответа кнопкой")
		}
		unlock := h.lockUser(userID)
		defer unlock()
		return h.recordAnswer(c, userID, domain.Answer{
			VocabularyID: q.VocabularyID,
			QuestionMode: q.QuestionMode,
			AnswerMode:   domain.AnswerText,
			Text:         text,
		})

	case domain.StateWaitingName:
		if err := h.services.Profile.UpdateName(ctx, userID, text); err != nil {
			return h.fail(c, "update name", userID, err)
		}
		h.ResetState(userID)
		return c.Send("✅ Имя сохранено: "+text, mainMenuMarkup())

	default:
		return c.Send(mainMenuText, mainMenuMarkup())
	}
}
