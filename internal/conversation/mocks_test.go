package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"puppymentor/internal/domain"
)

type mockProfile struct {
	mock.Mock
}

func (m *mockProfile) SetPuppyName(ctx context.Context, userID int64, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *mockProfile) SetBirthDate(ctx context.Context, userID int64, birth time.Time) error {
	args := m.Called(ctx, userID, birth)
	return args.Error(0)
}

func (m *mockProfile) LogWeight(ctx context.Context, userID int64, weight float64) (domain.WeightEntry, error) {
	args := m.Called(ctx, userID, weight)
	return args.Get(0).(domain.WeightEntry), args.Error(1)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Add(ctx context.Context, userID int64, kind domain.EventKind, at domain.TimeOfDay) (*domain.ScheduleEvent, error) {
	args := m.Called(ctx, userID, kind, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleEvent), args.Error(1)
}

type mockAssistant struct {
	mock.Mock
}

func (m *mockAssistant) AnswerQuestion(ctx context.Context, question string, mode domain.AIMode) (string, error) {
	args := m.Called(ctx, question, mode)
	return args.String(0), args.Error(1)
}

// recordingResponder keeps every reply for assertions
type recordingResponder struct {
	mu      sync.Mutex
	replies []Reply
	typing  int
}

func (r *recordingResponder) Respond(_ context.Context, _ int64, reply Reply) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, reply)
	return true
}

func (r *recordingResponder) Typing(context.Context, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typing++
}

func (r *recordingResponder) last() Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.replies) == 0 {
		return Reply{}
	}
	return r.replies[len(r.replies)-1]
}

func (r *recordingResponder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.replies)
}
