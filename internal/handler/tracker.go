package handler

import (
	tele "gopkg.in/telebot.v3"
)

// handleTracker shows the feeding and walk tracker
func (h *Handler) handleTracker(c tele.Context) error {
	return h.show(c, "🐾 Что произошло?", trackerMarkup())
}

func (h *Handler) handleFeed(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	if err := h.deps.Tracker.LogFeeding(ctx, c.Sender().ID); err != nil {
		return h.fail(c, "Failed to log feeding", err)
	}
	return c.Respond(&tele.CallbackResponse{Text: textFeedLogged})
}

// handleWalk records an outdoor success or an accident at home
func (h *Handler) handleWalk(success bool) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, cancel := h.requestContext()
		defer cancel()

		if err := h.deps.Tracker.LogWalk(ctx, c.Sender().ID, success); err != nil {
			return h.fail(c, "Failed to log walk", err)
		}

		text := textWalkOK
		if !success {
			text = textWalkFail
		}
		return c.Respond(&tele.CallbackResponse{Text: text})
	}
}

func (h *Handler) handleStats(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	stats, err := h.deps.Tracker.Today(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to load today stats", err)
	}
	return h.show(c, statsText(stats, h.deps.Location), trackerMarkup())
}
