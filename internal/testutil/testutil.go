package testutil

import (
	"time"

	"go.uber.org/zap"

	"puppymentor/internal/domain"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a registered test user born at birth
func NewTestUser(userID int64, name string, birth time.Time) *domain.User {
	return &domain.User{
		UserID:     userID,
		Subscribed: true,
		PuppyName:  name,
		BirthDate:  &birth,
		CreatedAt:  time.Now(),
	}
}

// NewTestEvent creates an active schedule event
func NewTestEvent(userID int64, kind domain.EventKind, hour, minute int) domain.ScheduleEvent {
	return *domain.NewScheduleEvent(userID, kind, domain.TimeOfDay{Hour: hour, Minute: minute}, time.Now())
}

// FixedClock returns a clock function always reporting t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
