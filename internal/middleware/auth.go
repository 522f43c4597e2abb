package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const checkTimeout = 5 * time.Second

// Authorizer reports whether a Telegram user passed the password gate
type Authorizer interface {
	EnsureUserExists(ctx context.Context, userID int64) error
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
}

// AuthMiddleware lets only authorized users through. Others are asked for
// the password, which the open text handler checks.
func AuthMiddleware(auth Authorizer, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID
			ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
			defer cancel()

			// Ensure user exists
			if err := auth.EnsureUserExists(ctx, userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return reply(c, "Произошла ошибка. Попробуйте позже.")
			}

			// Check authorization
			authorized, err := auth.IsAuthorized(ctx, userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return reply(c, "Произошла ошибка. Попробуйте позже.")
			}

			if !authorized {
				logger.Debug("Unauthorized request", zap.Int64("user_id", userID), zap.String("text", c.Text()))
				return reply(c, "Сначала введи пароль. Нажми /start")
			}

			return next(c)
		}
	}
}

func reply(c tele.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}
