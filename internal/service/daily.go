package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"puppymentor/internal/ai"
	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
	"puppymentor/internal/timer"
)

// Keys of the fixed jobs registered under timer.SystemOwner
const (
	JobMorningTip       = "morning_tip"
	JobVaccinationCheck = "vaccination_check"
	JobJournalCleanup   = "journal_cleanup"
)

// DailyTimes are the wall-clock times of the fixed jobs
type DailyTimes struct {
	MorningTip       domain.TimeOfDay
	VaccinationCheck domain.TimeOfDay
	JournalCleanup   domain.TimeOfDay
}

// DailyService runs the process-wide daily jobs
type DailyService struct {
	users        repository.UserRepository
	vaccinations repository.VaccinationRepository
	tracker      *TrackerService
	tips         TipGenerator
	notifier     Notifier
	times        DailyTimes
	loc          *time.Location

	now    func() time.Time
	pick   func(n int) int
	logger *zap.Logger
}

// NewDailyService creates a new daily jobs service
func NewDailyService(
	users repository.UserRepository,
	vaccinations repository.VaccinationRepository,
	tracker *TrackerService,
	tips TipGenerator,
	notifier Notifier,
	times DailyTimes,
	loc *time.Location,
	logger *zap.Logger,
) *DailyService {
	return &DailyService{
		users:        users,
		vaccinations: vaccinations,
		tracker:      tracker,
		tips:         tips,
		notifier:     notifier,
		times:        times,
		loc:          loc,
		now:          time.Now,
		pick:         rand.IntN,
		logger:       logger,
	}
}

// Register installs the fixed jobs in the registry
func (s *DailyService) Register(registry *timer.Registry) error {
	specs := []timer.Spec{
		{Key: JobMorningTip, At: s.times.MorningTip},
		{Key: JobVaccinationCheck, At: s.times.VaccinationCheck},
		{Key: JobJournalCleanup, At: s.times.JournalCleanup},
	}
	if err := registry.ReplaceAll(timer.SystemOwner, specs, s.run); err != nil {
		return fmt.Errorf("register daily jobs: %w", err)
	}

	s.logger.Info("Daily jobs scheduled",
		zap.String("morning_tip", s.times.MorningTip.String()),
		zap.String("vaccination_check", s.times.VaccinationCheck.String()),
		zap.String("journal_cleanup", s.times.JournalCleanup.String()),
		zap.String("tz", s.loc.String()),
	)
	return nil
}

func (s *DailyService) run(ctx context.Context, _ timer.Owner, spec timer.Spec) {
	switch spec.Key {
	case JobMorningTip:
		s.SendMorningTip(ctx)
	case JobVaccinationCheck:
		s.CheckVaccinations(ctx)
	case JobJournalCleanup:
		_ = s.tracker.CleanupOldData(ctx)
	default:
		s.logger.Error("Unknown daily job", zap.String("key", spec.Key))
	}
}

// SendMorningTip sends one tip on a random topic to every subscriber and returns the delivered count
func (s *DailyService) SendMorningTip(ctx context.Context) int {
	topic := ai.TipTopics[s.pick(len(ai.TipTopics))]
	s.logger.Info("Morning tip started", zap.String("topic", topic))

	tip, err := s.tips.GenerateTip(ctx, topic)
	if err != nil {
		s.logger.Warn("Tip generation failed, using fallback", zap.String("topic", topic), zap.Error(err))
		tip = ai.FallbackTip(topic)
	}
	message := "🌅 Доброе утро!\n\n" + tip

	subscribers, err := s.users.Subscribers(ctx)
	if err != nil {
		s.logger.Error("Failed to load subscribers", zap.Error(err))
		return 0
	}

	sent := 0
	for _, userID := range subscribers {
		if s.notifier.Send(ctx, userID, message) {
			sent++
		}
	}

	s.logger.Info("Morning tip finished", zap.Int("subscribers", len(subscribers)), zap.Int("sent", sent))
	return sent
}

// CheckVaccinations notifies subscribers about incomplete entries due in 3, 1 or 0 days
// and returns the number of reminders sent
func (s *DailyService) CheckVaccinations(ctx context.Context) int {
	now := s.now()

	subscribers, err := s.users.Subscribers(ctx)
	if err != nil {
		s.logger.Error("Failed to load subscribers", zap.Error(err))
		return 0
	}

	sent := 0
	for _, userID := range subscribers {
		entries, err := s.vaccinations.ListVaccinations(ctx, userID)
		if err != nil {
			s.logger.Error("Failed to load vaccinations", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}

		for _, e := range entries {
			daysLeft, due := e.DueForReminder(now)
			if !due {
				continue
			}
			if s.notifier.Send(ctx, userID, VaccinationReminderText(e, daysLeft, s.loc)) {
				sent++
			}
		}
	}

	s.logger.Info("Vaccination check finished", zap.Int("subscribers", len(subscribers)), zap.Int("sent", sent))
	return sent
}

// VaccinationReminderText composes the reminder for an upcoming procedure
func VaccinationReminderText(e domain.VaccinationEntry, daysLeft int, loc *time.Location) string {
	var when string
	switch daysLeft {
	case 0:
		when = "сегодня"
	case 1:
		when = "завтра"
	default:
		when = fmt.Sprintf("через %d дня", daysLeft)
	}
	return fmt.Sprintf("💉 Напоминание: %s %s (%s)", when, e.Title, domain.FormatDate(e.ScheduledAt, loc))
}
