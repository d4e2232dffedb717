// Package ai asks a language model for puppy care tips and answers.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"puppymentor/internal/domain"
)

var (
	// ErrDisabled is returned when no model is configured
	ErrDisabled = errors.New("ai is not configured")
	// ErrEmptyAnswer is returned when the model produced no text
	ErrEmptyAnswer = errors.New("empty answer from model")
)

// Generator produces a completion for prompt under the given system instruction
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

const (
	systemNormal = `Ты опытный кинолог и ветеринарный консультант. Отвечай по-русски, дружелюбно и по делу,
не длиннее 1200 символов. Давай практичные шаги для владельца щенка.
Если вопрос касается здоровья и симптомы серьёзные, советуй обратиться к ветеринару.`

	systemEmergency = `Ты ветеринарный консультант в экстренном режиме. Владелец щенка описывает проблему.
Отвечай по-русски, коротко и структурированно: сначала что сделать прямо сейчас,
затем признаки, при которых нужно немедленно ехать в клинику. Не ставь диагнозов.`

	systemTip = `Ты кинолог, который каждое утро присылает владельцам щенков один полезный совет.
Пиши по-русски, 3-5 предложений, без приветствия, с одним эмодзи в начале.`
)

// Advisor composes prompts for the assistant features
type Advisor struct {
	gen    Generator
	logger *zap.Logger
}

// NewAdvisor creates an advisor; a nil generator disables AI answers
func NewAdvisor(gen Generator, logger *zap.Logger) *Advisor {
	return &Advisor{gen: gen, logger: logger}
}

// GenerateTip asks for a short morning tip on topic
func (a *Advisor) GenerateTip(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf("Тема совета: %s.", topic)
	return a.generate(ctx, systemTip, prompt)
}

// AnswerQuestion forwards the user's question verbatim in the given mode
func (a *Advisor) AnswerQuestion(ctx context.Context, question string, mode domain.AIMode) (string, error) {
	system := systemNormal
	if mode == domain.AIModeEmergency {
		system = systemEmergency
	}
	return a.generate(ctx, system, question)
}

func (a *Advisor) generate(ctx context.Context, system, prompt string) (string, error) {
	if a.gen == nil {
		return "", ErrDisabled
	}

	text, err := a.gen.Generate(ctx, system, prompt)
	if err != nil {
		a.logger.Warn("Model request failed", zap.Error(err))
		return "", fmt.Errorf("generate: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}
