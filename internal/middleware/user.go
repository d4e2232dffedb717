package middleware

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// UserEnsurer creates the user row on first contact
type UserEnsurer interface {
	EnsureUser(ctx context.Context, userID int64) error
}

const ensureTimeout = 5 * time.Second

// EnsureUser makes sure every sender has a user row before any handler runs
func EnsureUser(users UserEnsurer, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), ensureTimeout)
			defer cancel()

			if err := users.EnsureUser(ctx, sender.ID); err != nil {
				logger.Error("Failed to ensure user exists in middleware",
					zap.Int64("user_id", sender.ID),
					zap.Error(err),
				)
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: "Произошла ошибка. Попробуйте позже."})
				}
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			return next(c)
		}
	}
}

// staleErrors are Telegram answers to outdated buttons and double clicks
var staleErrors = []string{
	"query is too old",
	"message is not modified",
}

// IsStale reports whether err comes from an outdated interaction
func IsStale(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range staleErrors {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// OnError is the bot-wide error hook; stale interactions are dropped silently
func OnError(logger *zap.Logger) func(error, tele.Context) {
	return func(err error, c tele.Context) {
		if IsStale(err) {
			logger.Debug("Ignoring stale interaction", zap.Error(err))
			return
		}

		fields := []zap.Field{zap.Error(err)}
		if c != nil && c.Sender() != nil {
			fields = append(fields, zap.Int64("user_id", c.Sender().ID))
		}
		logger.Error("Handler failed", fields...)
	}
}
