// Package notify delivers bot-initiated messages.
package notify

import (
	"context"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// sender is the part of *tele.Bot used for delivery
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier sends messages to users and never fails the caller
type Notifier struct {
	bot    sender
	logger *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(bot sender, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, logger: logger}
}

// Send delivers text to the user's private chat and reports success
func (n *Notifier) Send(ctx context.Context, userID int64, text string) bool {
	if err := ctx.Err(); err != nil {
		n.logger.Warn("Skipping send, context done", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}

	if _, err := n.bot.Send(tele.ChatID(userID), text); err != nil {
		n.logger.Error("Failed to send message",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false
	}
	return true
}
