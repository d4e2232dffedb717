package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
	"puppymentor/internal/timer"
)

// Rescheduler rebuilds a user's reminder triggers from stored events
type Rescheduler interface {
	RescheduleUser(ctx context.Context, userID int64) error
}

// ScheduleService handles edits of the daily schedule
type ScheduleService struct {
	schedules repository.ScheduleRepository
	reminders Rescheduler
	now       func() time.Time
	logger    *zap.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(schedules repository.ScheduleRepository, reminders Rescheduler, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		reminders: reminders,
		now:       time.Now,
		logger:    logger,
	}
}

// List returns the user's active events ordered by time
func (s *ScheduleService) List(ctx context.Context, userID int64) ([]domain.ScheduleEvent, error) {
	events, err := s.schedules.ListScheduleEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return events, nil
}

// Add stores a new event and rebuilds the user's reminders
func (s *ScheduleService) Add(ctx context.Context, userID int64, kind domain.EventKind, at domain.TimeOfDay) (*domain.ScheduleEvent, error) {
	ev := domain.NewScheduleEvent(userID, kind, at, s.now())
	if err := s.schedules.AddScheduleEvent(ctx, ev); err != nil {
		return nil, fmt.Errorf("add schedule event: %w", err)
	}

	s.reschedule(ctx, userID)
	return ev, nil
}

// Delete removes an event and rebuilds the user's reminders.
// repository.ErrNotFound means the event was already gone.
func (s *ScheduleService) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	if err := s.schedules.DeleteScheduleEvent(ctx, userID, id); err != nil {
		return fmt.Errorf("delete schedule event: %w", err)
	}
	s.reschedule(ctx, userID)
	return nil
}

// reschedule runs after the edit is committed, so a failure here never fails the edit.
// The triggers are rebuilt by the next edit of this user or on restart.
func (s *ScheduleService) reschedule(ctx context.Context, userID int64) {
	err := s.reminders.RescheduleUser(ctx, userID)

	var consistencyErr *timer.ScheduleConsistencyError
	switch {
	case err == nil:
	case errors.As(err, &consistencyErr):
		s.logger.Warn("Reminders partially registered",
			zap.Int64("user_id", userID),
			zap.Int("failed", len(consistencyErr.Failures)),
		)
	default:
		s.logger.Error("Failed to rebuild reminders after schedule edit",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
