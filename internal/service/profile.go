package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// ProfileService handles the user's puppy profile, weight and vaccinations
type ProfileService struct {
	users        repository.UserRepository
	vaccinations repository.VaccinationRepository
	journal      repository.JournalRepository
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	users repository.UserRepository,
	vaccinations repository.VaccinationRepository,
	journal repository.JournalRepository,
	loc *time.Location,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		users:        users,
		vaccinations: vaccinations,
		journal:      journal,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
	}
}

// Location returns the reference timezone dates are interpreted in
func (s *ProfileService) Location() *time.Location {
	return s.loc
}

// Start subscribes the user to morning tips and returns the stored profile
func (s *ProfileService) Start(ctx context.Context, userID int64) (*domain.User, error) {
	if err := s.users.Subscribe(ctx, userID); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return s.GetUser(ctx, userID)
}

// Stop unsubscribes the user from morning tips
func (s *ProfileService) Stop(ctx context.Context, userID int64) error {
	if err := s.users.Unsubscribe(ctx, userID); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

// GetUser returns the stored profile
func (s *ProfileService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SetPuppyName stores an already validated name
func (s *ProfileService) SetPuppyName(ctx context.Context, userID int64, name string) error {
	if err := s.users.SetPuppyName(ctx, userID, name); err != nil {
		return fmt.Errorf("set puppy name: %w", err)
	}
	return nil
}

// SetBirthDate stores the birth date and regenerates the whole vaccination schedule.
// Completion flags of the previous schedule are not carried over.
func (s *ProfileService) SetBirthDate(ctx context.Context, userID int64, birth time.Time) error {
	schedule := domain.BuildVaccinationSchedule(userID, birth)
	if err := s.users.SetBirthDate(ctx, userID, birth, schedule); err != nil {
		return fmt.Errorf("set birth date: %w", err)
	}

	s.logger.Info("Birth date set",
		zap.Int64("user_id", userID),
		zap.String("birth_date", domain.FormatDate(birth, s.loc)),
		zap.Int("vaccinations", len(schedule)),
	)
	return nil
}

// LogWeight records a weighing with the puppy's age in full weeks
func (s *ProfileService) LogWeight(ctx context.Context, userID int64, weight float64) (domain.WeightEntry, error) {
	now := s.now()
	entry := domain.WeightEntry{UserID: userID, Weight: weight, LoggedAt: now}

	u, err := s.users.GetUser(ctx, userID)
	switch {
	case err == nil:
		entry.AgeWeeks = domain.AgeInWeeks(u.BirthDate, now)
	case errors.Is(err, repository.ErrNotFound):
	default:
		return entry, fmt.Errorf("get user: %w", err)
	}

	if err := s.journal.LogWeight(ctx, entry); err != nil {
		return entry, fmt.Errorf("log weight: %w", err)
	}
	return entry, nil
}

// LastWeight returns the latest weighing or nil
func (s *ProfileService) LastWeight(ctx context.Context, userID int64) (*domain.WeightEntry, error) {
	w, err := s.journal.LastWeight(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("last weight: %w", err)
	}
	return w, nil
}

// Vaccinations returns the user's vaccination schedule
func (s *ProfileService) Vaccinations(ctx context.Context, userID int64) ([]domain.VaccinationEntry, error) {
	entries, err := s.vaccinations.ListVaccinations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list vaccinations: %w", err)
	}
	return entries, nil
}

// MarkVaccinationDone flags the entry as completed so the daily check skips it
func (s *ProfileService) MarkVaccinationDone(ctx context.Context, userID, id int64) error {
	if err := s.vaccinations.MarkVaccinationDone(ctx, userID, id); err != nil {
		return fmt.Errorf("mark vaccination done: %w", err)
	}
	return nil
}

// Erase deletes every stored record of the user
func (s *ProfileService) Erase(ctx context.Context, userID int64) error {
	if err := s.journal.Flush(ctx); err != nil {
		s.logger.Warn("Failed to flush journal before reset", zap.Int64("user_id", userID), zap.Error(err))
	}
	if err := s.users.ResetUser(ctx, userID); err != nil {
		return fmt.Errorf("reset user: %w", err)
	}
	return nil
}
