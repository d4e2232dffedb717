package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"puppymentor/internal/domain"
)

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "event kind", input: "walk", expected: "walk"},
		{name: "event kind with padding", input: "  sleep  ", expected: "sleep"},
		{name: "event kind with newline", input: "feed\ning", expected: "feeding"},
		{name: "vaccination id with tab", input: "1\t2", expected: "12"},
		{name: "uuid with nul", input: "3f2b9c1e-\x005d4a-4c2e-9f1a-7b6d8e0c2a41", expected: "3f2b9c1e-5d4a-4c2e-9f1a-7b6d8e0c2a41"},
		{name: "cyrillic survives", input: "прогулка", expected: "прогулка"},
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: "   ", expected: ""},
		{name: "only control characters", input: "\x00\x01\x7f", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanCallbackData(tt.input))
		})
	}
}

func TestCallbackPayloads_EventKind(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected domain.EventKind
		valid    bool
	}{
		{name: "walk", data: "walk", expected: domain.EventWalk, valid: true},
		{name: "feeding with noise", data: " feeding\n", expected: domain.EventFeeding, valid: true},
		{name: "training with nul", data: "train\x00ing", expected: domain.EventTraining, valid: true},
		{name: "forged kind", data: "dance", valid: false},
		{name: "title instead of kind", data: "🚶 Прогулка", valid: false},
		{name: "case differs", data: "Walk", valid: false},
		{name: "empty", data: "\x01", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := domain.ParseEventKind(cleanCallbackData(tt.data))
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.expected, kind)
			}
		})
	}
}

func TestCallbackPayloads_EventID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name  string
		data  string
		valid bool
	}{
		{name: "plain", data: id.String(), valid: true},
		{name: "padded", data: " " + id.String() + "\n", valid: true},
		{name: "embedded nul", data: id.String()[:8] + "\x00" + id.String()[8:], valid: true},
		{name: "not a uuid", data: "not-a-uuid", valid: false},
		{name: "truncated", data: id.String()[:20], valid: false},
		{name: "kind in id slot", data: "walk", valid: false},
		{name: "control only", data: "\x01", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uuid.Parse(cleanCallbackData(tt.data))
			if !tt.valid {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestCallbackPayloads_VaccinationID(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected int64
		valid    bool
	}{
		{name: "plain", data: formatID(12), expected: 12, valid: true},
		{name: "trailing tab", data: "12\t", expected: 12, valid: true},
		{name: "zero", data: "0", valid: false},
		{name: "negative", data: "-4", valid: false},
		{name: "overflow", data: "99999999999999999999", valid: false},
		{name: "uuid in id slot", data: uuid.NewString(), valid: false},
		{name: "control only", data: "\x01", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseID(cleanCallbackData(tt.data))
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
