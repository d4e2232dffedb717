package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/ai"
	"puppymentor/internal/domain"
)

// handleAssistant shows the assistant menu
func (h *Handler) handleAssistant(c tele.Context) error {
	return h.show(c, "🤖 Я отвечу на вопросы о щенке. Что нужно?", assistantMarkup())
}

// handleAsk switches the user into AI question mode
func (h *Handler) handleAsk(mode domain.AIMode) tele.HandlerFunc {
	return func(c tele.Context) error {
		h.deps.States.Set(c.Sender().ID, domain.InAIMode(mode))

		text := textAskNormal
		if mode == domain.AIModeEmergency {
			text = textAskUrgent
		}
		return h.show(c, text, cancelMarkup())
	}
}

// handleTip sends a tip on a random topic, static when generation fails
func (h *Handler) handleTip(c tele.Context) error {
	_ = c.Notify(tele.Typing)

	ctx, cancel := h.requestContext()
	defer cancel()

	topic := ai.TipTopics[h.pick(len(ai.TipTopics))]
	tip, err := h.deps.Tips.GenerateTip(ctx, topic)
	if err != nil {
		h.logger.Warn("Tip generation failed, using fallback",
			zap.Int64("user_id", c.Sender().ID),
			zap.String("topic", topic),
			zap.Error(err),
		)
		tip = ai.FallbackTip(topic)
	}

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(tip, assistantMarkup())
}
