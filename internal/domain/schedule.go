package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind is the type of a daily schedule event
type EventKind string

const (
	EventFeeding  EventKind = "feeding"
	EventWalk     EventKind = "walk"
	EventTraining EventKind = "training"
	EventSleep    EventKind = "sleep"
	EventOther    EventKind = "other"
)

var eventTitles = map[EventKind]string{
	EventFeeding:  "🍖 Кормление",
	EventWalk:     "🚶 Прогулка",
	EventTraining: "🎓 Тренировка",
	EventSleep:    "😴 Сон",
	EventOther:    "📌 Другое",
}

// EventKinds lists the kinds offered in the "add event" menu
func EventKinds() []EventKind {
	return []EventKind{EventFeeding, EventWalk, EventTraining, EventSleep}
}

// ParseEventKind accepts only known kinds; anything else comes from a stale or forged button
func ParseEventKind(s string) (EventKind, bool) {
	k := EventKind(s)
	_, ok := eventTitles[k]
	return k, ok
}

// Title returns the human readable name of the kind
func (k EventKind) Title() string {
	if t, ok := eventTitles[k]; ok {
		return t
	}
	return string(k)
}

// TimeOfDay is a wall-clock time without date
type TimeOfDay struct {
	Hour   int
	Minute int
}

const minutesPerDay = 24 * 60

// Minutes returns minutes since midnight
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Valid reports whether the time is within 00:00..23:59
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// Before returns the time of day d earlier, wrapping past midnight (00:05 - 10m = 23:55)
func (t TimeOfDay) Before(d time.Duration) TimeOfDay {
	m := (t.Minutes() - int(d/time.Minute)) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

// ScheduleEvent is a daily recurring event of a user's puppy routine
type ScheduleEvent struct {
	ID        uuid.UUID
	UserID    int64
	Kind      EventKind
	Label     string
	At        TimeOfDay
	Active    bool
	CreatedAt time.Time
}

// NewScheduleEvent creates an active event with a fresh identity
func NewScheduleEvent(userID int64, kind EventKind, at TimeOfDay, now time.Time) *ScheduleEvent {
	return &ScheduleEvent{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Label:     kind.Title(),
		At:        at,
		Active:    true,
		CreatedAt: now,
	}
}

// DisplayName returns the label or the kind title when no label is set
func (e ScheduleEvent) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Kind.Title()
}
