package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"vocabtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackArgs splits "<prefix><a>_<b>..." into n integers
func callbackArgs(data, prefix string, n int) ([]int64, error) {
	parts := strings.Split(strings.TrimPrefix(data, prefix), "_")
	if len(parts) != n {
		return nil, fmt.Errorf("callback %q: want %d args, got %d", data, n, len(parts))
	}
	args := make([]int64, n)
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("callback %q: %w", data, err)
		}
		args[i] = v
	}
	return args, nil
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// show edits the message behind a callback, or sends a new one for commands
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}
	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// notice answers a callback with a popup, or a plain message for commands
func notice(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

// fail logs err and tells the user what went wrong
func (h *Handler) fail(c tele.Context, op string, userID int64, err error) error {
	if domain.IsInvalidArgument(err) {
		h.logger.Warn("Rejected request", zap.String("op", op), zap.Int64("user_id", userID), zap.Error(err))
	} else {
		h.logger.Error("Request failed", zap.String("op", op), zap.Int64("user_id", userID), zap.Error(err))
	}
	return notice(c, userMessage(err))
}

// userMessage maps a service error to text safe to show the user
func userMessage(err error) string {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Code == domain.ErrCodeInvalidArgument {
		return "⚠️ Некорректный запрос: " + derr.Message
	}
	return internalError
}

// handleCallback handles callback queries with dynamic data
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Static buttons whose Unique did not come through
	switch data {
	case btnStudy.Unique:
		return h.handleStudy(c)
	case btnReview.Unique:
		return h.handleReview(c)
	case btnTest.Unique:
		return h.handleTest(c)
	case btnProgress.Unique:
		return h.handleProgress(c)
	case btnTopics.Unique:
		return h.handleTopics(c)
	case btnWords.Unique:
		return h.handleWords(c)
	case btnCancel.Unique:
		return h.handleCancel(c)
	case btnMainMenu.Unique:
		return h.handleStart(c)
	}

	// Dynamic buttons
	switch {
	case strings.HasPrefix(data, qualityPrefix):
		return h.handleQuality(c, data)
	case strings.HasPrefix(data, answerPrefix):
		return h.handleAnswer(c, data)
	case strings.HasPrefix(data, topicPrefix):
		return h.handleTopicToggle(c, data)
	case strings.HasPrefix(data, pagePrefix):
		return h.handlePagination(c, data)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
