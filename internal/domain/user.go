package domain

import "time"

// User represents a bot user and the puppy they track
type User struct {
	UserID     int64
	Subscribed bool
	PuppyName  string
	BirthDate  *time.Time
	CreatedAt  time.Time
}

// Registered reports whether the registration flow has been completed
func (u *User) Registered() bool {
	return u.PuppyName != "" && u.BirthDate != nil
}

// WeightEntry is a single weighing of the puppy
type WeightEntry struct {
	UserID   int64
	Weight   float64
	AgeWeeks int
	LoggedAt time.Time
}

// ActivityStats aggregates feedings and walks since a point in time
type ActivityStats struct {
	Feedings    int
	WalksOK     int
	Accidents   int
	LastFeeding *time.Time
}

// AgeInWeeks returns full weeks between birth and now, 0 when birth is unknown or in the future
func AgeInWeeks(birth *time.Time, now time.Time) int {
	if birth == nil {
		return 0
	}
	d := now.Sub(*birth)
	if d <= 0 {
		return 0
	}
	return int(d / (7 * 24 * time.Hour))
}
