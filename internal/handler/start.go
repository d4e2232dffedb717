package handler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/domain"
)

// handleStart subscribes the user and starts registration for newcomers
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	ctx, cancel := h.requestContext()
	defer cancel()

	user, err := h.deps.Profile.Start(ctx, userID)
	if err != nil {
		return h.fail(c, "Failed to start user", err)
	}

	if !user.Registered() {
		h.deps.States.Set(userID, domain.AwaitingPuppyName())
		return c.Send(textAskName)
	}

	h.deps.States.Clear(userID)
	return c.Send(greeting(user), mainMenuMarkup())
}

func greeting(u *domain.User) string {
	return fmt.Sprintf("🐶 С возвращением! Как дела у %s?\n\n%s", u.PuppyName, textMainMenu)
}

// handleStop unsubscribes the user from morning tips
func (h *Handler) handleStop(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	if err := h.deps.Profile.Stop(ctx, c.Sender().ID); err != nil {
		return h.fail(c, "Failed to unsubscribe user", err)
	}
	return c.Send(textStopped)
}

// handleReset erases the user's data, reminders and pending input
func (h *Handler) handleReset(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := h.requestContext()
	defer cancel()

	if err := h.deps.Reset.ResetUser(ctx, userID); err != nil {
		return h.fail(c, "Failed to reset user", err)
	}

	h.logger.Info("User reset", zap.Int64("user_id", userID))
	return c.Send(textResetDone)
}

// handleText passes free text to the pending flow, if any.
// Text nobody waits for is dropped silently, as are unknown commands.
func (h *Handler) handleText(c tele.Context) error {
	if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
		return nil
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	h.deps.Machine.HandleText(ctx, c.Sender().ID, c.Text())
	return nil
}
