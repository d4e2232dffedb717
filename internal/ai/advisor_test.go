package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"puppymentor/internal/domain"
)

type fakeGenerator struct {
	system string
	prompt string
	answer string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.answer, f.err
}

func TestAdvisor_AnswerQuestion(t *testing.T) {
	tests := []struct {
		name           string
		mode           domain.AIMode
		answer         string
		genErr         error
		expectedSystem string
		expected       string
		expectedErr    error
	}{
		{
			name:           "normal mode",
			mode:           domain.AIModeNormal,
			answer:         "  Хвалите щенка.  ",
			expectedSystem: systemNormal,
			expected:       "Хвалите щенка.",
		},
		{
			name:           "emergency mode",
			mode:           domain.AIModeEmergency,
			answer:         "Срочно к врачу.",
			expectedSystem: systemEmergency,
			expected:       "Срочно к врачу.",
		},
		{
			name:           "empty answer",
			mode:           domain.AIModeNormal,
			answer:         "   ",
			expectedSystem: systemNormal,
			expectedErr:    ErrEmptyAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{answer: tt.answer, err: tt.genErr}
			advisor := NewAdvisor(gen, zap.NewNop())

			got, err := advisor.AnswerQuestion(context.Background(), "Щенок не ест", tt.mode)

			assert.Equal(t, tt.expectedSystem, gen.system)
			assert.Equal(t, "Щенок не ест", gen.prompt)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAdvisor_GeneratorErrorIsWrapped(t *testing.T) {
	cause := errors.New("quota exceeded")
	advisor := NewAdvisor(&fakeGenerator{err: cause}, zap.NewNop())

	_, err := advisor.GenerateTip(context.Background(), "режим кормления")

	assert.ErrorIs(t, err, cause)
}

func TestAdvisor_GenerateTipPromptMentionsTopic(t *testing.T) {
	gen := &fakeGenerator{answer: "🍖 Кормите по часам."}
	advisor := NewAdvisor(gen, zap.NewNop())

	tip, err := advisor.GenerateTip(context.Background(), "режим кормления")

	assert.NoError(t, err)
	assert.Equal(t, "🍖 Кормите по часам.", tip)
	assert.Equal(t, systemTip, gen.system)
	assert.Contains(t, gen.prompt, "режим кормления")
}

func TestAdvisor_Disabled(t *testing.T) {
	advisor := NewAdvisor(nil, zap.NewNop())

	_, err := advisor.AnswerQuestion(context.Background(), "вопрос", domain.AIModeNormal)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestFallbackTip(t *testing.T) {
	for _, topic := range TipTopics {
		assert.NotEqual(t, genericFallbackTip, FallbackTip(topic), topic)
	}
	assert.Equal(t, genericFallbackTip, FallbackTip("неизвестная тема"))
}
