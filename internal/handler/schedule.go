package handler

import (
	"errors"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// handleSchedule shows the daily events with delete buttons
func (h *Handler) handleSchedule(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	events, err := h.deps.Schedule.List(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to list schedule", err)
	}
	return h.show(c, scheduleText(events), scheduleMarkup(events))
}

// handleScheduleAdd asks which kind of event to add
func (h *Handler) handleScheduleAdd(c tele.Context) error {
	return h.show(c, "Что добавить в расписание?", eventKindsMarkup())
}

// handleScheduleKind waits for the time of the chosen kind
func (h *Handler) handleScheduleKind(c tele.Context) error {
	kind, ok := domain.ParseEventKind(cleanCallbackData(c.Callback().Data))
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: textStale})
	}

	h.deps.States.Set(c.Sender().ID, domain.AwaitingScheduleTime(kind))
	return h.show(c, kind.Title()+"\n\n"+textAskTime, cancelMarkup())
}

// handleScheduleDelete removes an event; unknown IDs come from stale buttons
func (h *Handler) handleScheduleDelete(c tele.Context) error {
	userID := c.Sender().ID

	id, err := uuid.Parse(cleanCallbackData(c.Callback().Data))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: textStale})
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	err = h.deps.Schedule.Delete(ctx, userID, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return h.fail(c, "Failed to delete schedule event", err)
	}

	return h.handleSchedule(c)
}
