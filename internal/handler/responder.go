package handler

import (
	"context"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/conversation"
)

// Responder delivers conversation replies with their menu keyboards
type Responder struct {
	send   func(to tele.Recipient, text string, markup *tele.ReplyMarkup) error
	typing func(to tele.Recipient) error
	logger *zap.Logger
}

// NewResponder creates a responder sending through bot
func NewResponder(bot *tele.Bot, logger *zap.Logger) *Responder {
	return &Responder{
		send: func(to tele.Recipient, text string, markup *tele.ReplyMarkup) error {
			if markup == nil {
				_, err := bot.Send(to, text)
				return err
			}
			_, err := bot.Send(to, text, markup)
			return err
		},
		typing: func(to tele.Recipient) error {
			return bot.Notify(to, tele.Typing)
		},
		logger: logger,
	}
}

// Respond sends reply to the user and reports success
func (r *Responder) Respond(ctx context.Context, userID int64, reply conversation.Reply) bool {
	if ctx.Err() != nil {
		return false
	}

	if err := r.send(tele.ChatID(userID), reply.Text, menuMarkup(reply.Menu)); err != nil {
		r.logger.Warn("Failed to send reply", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

// Typing shows the typing indicator, failures are only logged
func (r *Responder) Typing(ctx context.Context, userID int64) {
	if ctx.Err() != nil {
		return
	}
	if err := r.typing(tele.ChatID(userID)); err != nil {
		r.logger.Debug("Failed to send typing action", zap.Int64("user_id", userID), zap.Error(err))
	}
}
