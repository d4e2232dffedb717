package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"puppymentor/internal/domain"
	"puppymentor/internal/service"
)

func sampleProgress(scores map[string]int) []domain.CommandProgress {
	var out []domain.CommandProgress
	for _, c := range domain.Commands() {
		out = append(out, domain.CommandProgress{Command: c, Score: scores[c.ID]})
	}
	return out
}

func TestHandleTraining(t *testing.T) {
	h := newTestHandler()
	h.training.On("Progress", mock.Anything, int64(5)).Return(sampleProgress(map[string]int{"sit": 10}), nil)

	c := press(5, "")
	require.NoError(t, h.handleTraining(c))

	require.Len(t, c.edited, 1)
	assert.Contains(t, c.edited[0], "🟢 Базовые")
	assert.Contains(t, c.edited[0], "Сидеть\n█████░░░░░ 10/20 (50%)")
}

func TestHandleTraining_StorageError(t *testing.T) {
	h := newTestHandler()
	h.training.On("Progress", mock.Anything, int64(5)).Return(nil, errors.New("db error"))

	c := press(5, "")
	require.NoError(t, h.handleTraining(c))

	require.Len(t, c.answers, 1)
	assert.Equal(t, textError, c.answers[0].Text)
}

func TestHandleTrainingSelect(t *testing.T) {
	h := newTestHandler()
	c := press(5, "")

	require.NoError(t, h.handleTrainingSelect(c))

	require.Len(t, c.edited, 1)
	assert.Equal(t, textPickSkill, c.edited[0])
}

func TestHandleTrainingCommand(t *testing.T) {
	sit, _ := domain.FindCommand("sit")

	tests := []struct {
		name          string
		data          string
		commandID     string
		practiceErr   error
		expectedToast string
		expectRefresh bool
	}{
		{name: "counted", data: "sit", commandID: "sit", expectedToast: "✅ Супер! +1 к навыку \"Сидеть\"", expectRefresh: true},
		{name: "noisy payload", data: " sit\x00", commandID: "sit", expectedToast: "✅ Супер! +1 к навыку \"Сидеть\"", expectRefresh: true},
		{name: "forged command", data: "dance", commandID: "dance", practiceErr: service.ErrUnknownCommand, expectedToast: textStale},
		{name: "storage failure", data: "sit", commandID: "sit", practiceErr: errors.New("db error"), expectedToast: textError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			h.training.On("Practice", mock.Anything, int64(5), tt.commandID).
				Return(domain.CommandProgress{Command: sit, Score: 4}, tt.practiceErr)
			if tt.expectRefresh {
				h.training.On("Progress", mock.Anything, int64(5)).Return(sampleProgress(map[string]int{"sit": 4}), nil)
			}

			c := press(5, tt.data)
			require.NoError(t, h.handleTrainingCommand(c))

			require.Len(t, c.answers, 1)
			assert.Equal(t, tt.expectedToast, c.answers[0].Text)
			if tt.expectRefresh {
				require.Len(t, c.edited, 1)
				assert.Contains(t, c.edited[0], "4/20")
			} else {
				assert.Empty(t, c.edited)
				h.training.AssertNotCalled(t, "Progress", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestTrainingCommandsMarkup(t *testing.T) {
	cmds := domain.Commands()
	m := trainingCommandsMarkup(cmds)

	buttons := 0
	for _, row := range m.InlineKeyboard[:len(m.InlineKeyboard)-1] {
		assert.LessOrEqual(t, len(row), 2)
		buttons += len(row)
	}
	assert.Equal(t, len(cmds), buttons)
	assert.Equal(t, btnTraining.Text, m.InlineKeyboard[len(m.InlineKeyboard)-1][0].Text)
}
