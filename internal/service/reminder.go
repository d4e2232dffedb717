package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
	"puppymentor/internal/timer"
)

const rescheduleParallelism = 8

// ReminderService keeps each user's reminder triggers in sync with their schedule
type ReminderService struct {
	schedules repository.ScheduleRepository
	registry  *timer.Registry
	notifier  Notifier
	lead      time.Duration
	logger    *zap.Logger

	// Per-user locks make reading the events and replacing the triggers one step
	userLocks map[int64]*sync.Mutex
	locksMux  sync.Mutex
}

// NewReminderService creates a new reminder service; reminders fire lead before each event
func NewReminderService(
	schedules repository.ScheduleRepository,
	registry *timer.Registry,
	notifier Notifier,
	lead time.Duration,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		schedules: schedules,
		registry:  registry,
		notifier:  notifier,
		lead:      lead,
		logger:    logger,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *ReminderService) userLock(userID int64) *sync.Mutex {
	s.locksMux.Lock()
	defer s.locksMux.Unlock()

	lock, exists := s.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// RescheduleUser replaces the user's triggers with one per active event.
// Calling it again without schedule changes yields the same trigger set.
// Concurrent calls for one user run one after another, so the last one always sees the latest events.
func (s *ReminderService) RescheduleUser(ctx context.Context, userID int64) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	events, err := s.schedules.ListScheduleEvents(ctx, userID)
	if err != nil {
		return fmt.Errorf("list schedule events: %w", err)
	}

	specs := make([]timer.Spec, 0, len(events))
	for _, ev := range events {
		if !ev.Active {
			continue
		}
		specs = append(specs, timer.Spec{
			Key: ev.ID.String(),
			At:  ev.At.Before(s.lead),
		})
	}

	if err := s.registry.ReplaceAll(timer.UserOwner(userID), specs, s.fire); err != nil {
		return err
	}

	s.logger.Debug("Reminders rescheduled", zap.Int64("user_id", userID), zap.Int("reminders", len(specs)))
	return nil
}

// RescheduleAll rebuilds triggers for every user with active events.
// A failing user is logged and does not affect the others.
func (s *ReminderService) RescheduleAll(ctx context.Context) error {
	userIDs, err := s.schedules.ListUsersWithActiveEvents(ctx)
	if err != nil {
		return fmt.Errorf("list users with events: %w", err)
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rescheduleParallelism)

	for _, userID := range userIDs {
		g.Go(func() error {
			if err := s.RescheduleUser(gctx, userID); err != nil {
				failed.Add(1)
				s.logger.Error("Failed to restore reminders", zap.Int64("user_id", userID), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("Reminders restored",
		zap.Int("users", len(userIDs)),
		zap.Int32("failed", failed.Load()),
	)
	return nil
}

// CancelUser drops all of the user's triggers
func (s *ReminderService) CancelUser(userID int64) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.registry.CancelAll(timer.UserOwner(userID))
}

// fire re-reads the event so a reminder never outlives its event
func (s *ReminderService) fire(ctx context.Context, owner timer.Owner, spec timer.Spec) {
	userID, ok := owner.UserID()
	if !ok {
		s.logger.Error("Reminder fired for non-user owner", zap.String("owner", string(owner)))
		return
	}

	id, err := uuid.Parse(spec.Key)
	if err != nil {
		s.logger.Error("Reminder has malformed event key", zap.String("key", spec.Key), zap.Error(err))
		return
	}

	ev, err := s.schedules.GetScheduleEvent(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug("Reminder for deleted event skipped", zap.Int64("user_id", userID), zap.String("event_id", spec.Key))
		return
	}
	if err != nil {
		s.logger.Error("Failed to load event for reminder", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	s.notifier.Send(ctx, userID, ReminderText(*ev, s.lead))
}

// ReminderText composes the reminder message for an event
func ReminderText(ev domain.ScheduleEvent, lead time.Duration) string {
	return fmt.Sprintf("⏰ Напоминание: через %d мин. %s в %s", int(lead/time.Minute), ev.DisplayName(), ev.At)
}
