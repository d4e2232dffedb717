package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"puppymentor/internal/domain"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetPuppyName(ctx context.Context, userID int64, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *MockUserRepository) SetBirthDate(ctx context.Context, userID int64, birth time.Time, schedule []domain.VaccinationEntry) error {
	args := m.Called(ctx, userID, birth, schedule)
	return args.Error(0)
}

func (m *MockUserRepository) Subscribe(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) Unsubscribe(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) Subscribers(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) ResetUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockScheduleRepository is a mock for ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) ListScheduleEvents(ctx context.Context, userID int64) ([]domain.ScheduleEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduleEvent), args.Error(1)
}

func (m *MockScheduleRepository) GetScheduleEvent(ctx context.Context, userID int64, id uuid.UUID) (*domain.ScheduleEvent, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleEvent), args.Error(1)
}

func (m *MockScheduleRepository) ListUsersWithActiveEvents(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockScheduleRepository) AddScheduleEvent(ctx context.Context, ev *domain.ScheduleEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockScheduleRepository) DeleteScheduleEvent(ctx context.Context, userID int64, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockVaccinationRepository is a mock for VaccinationRepository
type MockVaccinationRepository struct {
	mock.Mock
}

func (m *MockVaccinationRepository) ListVaccinations(ctx context.Context, userID int64) ([]domain.VaccinationEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VaccinationEntry), args.Error(1)
}

func (m *MockVaccinationRepository) ReplaceVaccinationSchedule(ctx context.Context, userID int64, entries []domain.VaccinationEntry) error {
	args := m.Called(ctx, userID, entries)
	return args.Error(0)
}

func (m *MockVaccinationRepository) MarkVaccinationDone(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockJournalRepository is a mock for JournalRepository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) LogWeight(ctx context.Context, entry domain.WeightEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) LastWeight(ctx context.Context, userID int64) (*domain.WeightEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeightEntry), args.Error(1)
}

func (m *MockJournalRepository) LogFeeding(ctx context.Context, userID int64, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockJournalRepository) LogWalk(ctx context.Context, userID int64, success bool, at time.Time) error {
	args := m.Called(ctx, userID, success, at)
	return args.Error(0)
}

func (m *MockJournalRepository) TodayStats(ctx context.Context, userID int64, since time.Time) (domain.ActivityStats, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(domain.ActivityStats), args.Error(1)
}

func (m *MockJournalRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTrainingRepository is a mock for TrainingRepository
type MockTrainingRepository struct {
	mock.Mock
}

func (m *MockTrainingRepository) IncrementCommand(ctx context.Context, userID int64, command string) (int, error) {
	args := m.Called(ctx, userID, command)
	return args.Int(0), args.Error(1)
}

func (m *MockTrainingRepository) CommandScores(ctx context.Context, userID int64) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockNotifier is a mock for the delivery collaborator
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, userID int64, text string) bool {
	args := m.Called(ctx, userID, text)
	return args.Bool(0)
}

// MockTipGenerator is a mock for the morning tip source
type MockTipGenerator struct {
	mock.Mock
}

func (m *MockTipGenerator) GenerateTip(ctx context.Context, topic string) (string, error) {
	args := m.Called(ctx, topic)
	return args.String(0), args.Error(1)
}
