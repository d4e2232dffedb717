package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"puppymentor/internal/domain"
)

// ErrNotFound is returned when the requested row does not exist
var ErrNotFound = errors.New("not found")

// UserRepository defines user data operations
type UserRepository interface {
	EnsureUser(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	SetPuppyName(ctx context.Context, userID int64, name string) error
	// SetBirthDate stores the birth date and replaces the vaccination schedule in one transaction
	SetBirthDate(ctx context.Context, userID int64, birth time.Time, schedule []domain.VaccinationEntry) error
	Subscribe(ctx context.Context, userID int64) error
	Unsubscribe(ctx context.Context, userID int64) error
	Subscribers(ctx context.Context) ([]int64, error)
	ResetUser(ctx context.Context, userID int64) error
}

// ScheduleRepository defines daily schedule event operations
type ScheduleRepository interface {
	ListScheduleEvents(ctx context.Context, userID int64) ([]domain.ScheduleEvent, error)
	GetScheduleEvent(ctx context.Context, userID int64, id uuid.UUID) (*domain.ScheduleEvent, error)
	ListUsersWithActiveEvents(ctx context.Context) ([]int64, error)
	AddScheduleEvent(ctx context.Context, ev *domain.ScheduleEvent) error
	DeleteScheduleEvent(ctx context.Context, userID int64, id uuid.UUID) error
}

// VaccinationRepository defines vaccination schedule operations
type VaccinationRepository interface {
	ListVaccinations(ctx context.Context, userID int64) ([]domain.VaccinationEntry, error)
	ReplaceVaccinationSchedule(ctx context.Context, userID int64, entries []domain.VaccinationEntry) error
	MarkVaccinationDone(ctx context.Context, userID, id int64) error
}

// JournalRepository defines weight, feeding and walk logs.
// Writes may be buffered; Flush makes them durable.
type JournalRepository interface {
	LogWeight(ctx context.Context, entry domain.WeightEntry) error
	LastWeight(ctx context.Context, userID int64) (*domain.WeightEntry, error)
	LogFeeding(ctx context.Context, userID int64, at time.Time) error
	LogWalk(ctx context.Context, userID int64, success bool, at time.Time) error
	TodayStats(ctx context.Context, userID int64, since time.Time) (domain.ActivityStats, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	Flush(ctx context.Context) error
}

// TrainingRepository defines per-command training progress
type TrainingRepository interface {
	// IncrementCommand adds one session to the command and returns the new score
	IncrementCommand(ctx context.Context, userID int64, command string) (int, error)
	CommandScores(ctx context.Context, userID int64) (map[string]int, error)
}
