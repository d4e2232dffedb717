package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// RetentionDays is how long feeding and walk records are kept
const RetentionDays = 60

// TrackerService handles feeding and walk logs and their statistics
type TrackerService struct {
	journal repository.JournalRepository
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

// NewTrackerService creates a new tracker service
func NewTrackerService(journal repository.JournalRepository, loc *time.Location, logger *zap.Logger) *TrackerService {
	return &TrackerService{
		journal: journal,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// LogFeeding records a feeding now
func (s *TrackerService) LogFeeding(ctx context.Context, userID int64) error {
	if err := s.journal.LogFeeding(ctx, userID, s.now()); err != nil {
		return fmt.Errorf("log feeding: %w", err)
	}
	return nil
}

// LogWalk records a walk now; success is false for an accident at home
func (s *TrackerService) LogWalk(ctx context.Context, userID int64, success bool) error {
	if err := s.journal.LogWalk(ctx, userID, success, s.now()); err != nil {
		return fmt.Errorf("log walk: %w", err)
	}
	return nil
}

// Today returns stats since local midnight
func (s *TrackerService) Today(ctx context.Context, userID int64) (domain.ActivityStats, error) {
	since := domain.StartOfDay(s.now(), s.loc)
	stats, err := s.journal.TodayStats(ctx, userID, since)
	if err != nil {
		return stats, fmt.Errorf("today stats: %w", err)
	}
	return stats, nil
}

// CleanupOldData removes feeding and walk records older than RetentionDays
func (s *TrackerService) CleanupOldData(ctx context.Context) error {
	s.logger.Info("Starting cleanup of old journal records", zap.Int("retention_days", RetentionDays))

	cutoff := s.now().AddDate(0, 0, -RetentionDays)
	n, err := s.journal.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to cleanup old journal records", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully", zap.Int64("deleted", n))
	return nil
}
