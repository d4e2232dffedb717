package service

import (
	"context"
	"errors"
)

// ErrNotRegistered is returned when an operation needs the puppy birth date and it is unknown
var ErrNotRegistered = errors.New("user is not registered")

// Notifier delivers a bot-initiated message; failures are handled inside
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) bool
}

// TipGenerator produces the morning tip for a topic
type TipGenerator interface {
	GenerateTip(ctx context.Context, topic string) (string, error)
}
