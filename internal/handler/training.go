package handler

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/domain"
	"puppymentor/internal/service"
)

// handleTraining shows progress on every command, grouped by category
func (h *Handler) handleTraining(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	progress, err := h.deps.Training.Progress(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to load training progress", err)
	}
	return h.show(c, trainingText(progress), trainingMarkup())
}

func (h *Handler) handleTrainingSelect(c tele.Context) error {
	return h.show(c, textPickSkill, trainingCommandsMarkup(domain.Commands()))
}

// handleTrainingCommand counts one session of the pressed command
func (h *Handler) handleTrainingCommand(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	userID := c.Sender().ID
	p, err := h.deps.Training.Practice(ctx, userID, cleanCallbackData(c.Callback().Data))
	if errors.Is(err, service.ErrUnknownCommand) {
		return c.Respond(&tele.CallbackResponse{Text: textStale})
	}
	if err != nil {
		return h.fail(c, "Failed to record training session", err)
	}

	progress, err := h.deps.Training.Progress(ctx, userID)
	if err != nil {
		return h.fail(c, "Failed to load training progress", err)
	}

	// The toast answers the callback, so the refresh below must not acknowledge it again
	if err := c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("✅ Супер! +1 к навыку \"%s\"", p.Command.Name)}); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Int64("user_id", userID), zap.Error(err))
	}

	text := trainingText(progress)
	if err := c.Edit(text, trainingMarkup()); err != nil && !strings.Contains(err.Error(), "message is not modified") {
		h.logger.Warn("Failed to edit training progress, sending new", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(text, trainingMarkup())
	}
	return nil
}
