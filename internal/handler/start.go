package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	mainMenuText   = "🏠 Главное меню\n\nВыберите действие:"
	passwordPrompt = "Привет! Это тренажёр английских слов. Чтобы начать, введи пароль:"
	internalError  = "Произошла ошибка. Попробуйте позже."
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.services.Auth.EnsureUserExists(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(internalError)
	}

	// Check if authorized
	authorized, err := h.services.Auth.IsAuthorized(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(internalError)
	}

	h.ResetState(userID)
	if !authorized {
		return c.Send(passwordPrompt)
	}

	return h.show(c, mainMenuText, mainMenuMarkup())
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	return h.show(c, mainMenuText, mainMenuMarkup())
}
