package handler

import (
	"errors"

	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// handleHealth shows the health menu
func (h *Handler) handleHealth(c tele.Context) error {
	return h.show(c, "🩺 Здоровье щенка", healthMarkup())
}

// handleVaccinations lists the vaccination schedule
func (h *Handler) handleVaccinations(c tele.Context) error {
	ctx, cancel := h.requestContext()
	defer cancel()

	entries, err := h.deps.Profile.Vaccinations(ctx, c.Sender().ID)
	if err != nil {
		return h.fail(c, "Failed to list vaccinations", err)
	}
	if len(entries) == 0 {
		return h.show(c, textNoBirth, healthMarkup())
	}
	return h.show(c, vaccinationsText(entries, h.now(), h.deps.Location), vaccinationsMarkup(entries))
}

// handleVaccinationDone marks an entry completed and refreshes the list
func (h *Handler) handleVaccinationDone(c tele.Context) error {
	id, ok := parseID(cleanCallbackData(c.Callback().Data))
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: textStale})
	}

	ctx, cancel := h.requestContext()
	defer cancel()

	err := h.deps.Profile.MarkVaccinationDone(ctx, c.Sender().ID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: textStale})
	}
	if err != nil {
		return h.fail(c, "Failed to mark vaccination done", err)
	}

	return h.handleVaccinations(c)
}

// handleWeight waits for a weight value
func (h *Handler) handleWeight(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := h.requestContext()
	defer cancel()

	last, err := h.deps.Profile.LastWeight(ctx, userID)
	if err != nil {
		return h.fail(c, "Failed to load last weight", err)
	}

	h.deps.States.Set(userID, domain.AwaitingWeight())
	return h.show(c, weightPrompt(last, h.now(), h.deps.Location), cancelMarkup())
}

// handleBirthDate waits for a corrected birth date
func (h *Handler) handleBirthDate(c tele.Context) error {
	h.deps.States.Set(c.Sender().ID, domain.AwaitingBirthDate(domain.PurposeUpdate))
	return h.show(c, textAskBirth, cancelMarkup())
}
