package domain

import "fmt"

// StateKind is the tag of a PendingState
type StateKind int

const (
	StateNone StateKind = iota
	StateAwaitingPuppyName
	StateAwaitingBirthDate
	StateAwaitingWeight
	StateAwaitingScheduleTime
	StateAIMode
)

// BirthDatePurpose tells whether a birth date is entered during registration or as a correction
type BirthDatePurpose string

const (
	PurposeRegistration BirthDatePurpose = "registration"
	PurposeUpdate       BirthDatePurpose = "update"
)

// AIMode selects the assistant persona
type AIMode string

const (
	AIModeNormal    AIMode = "normal"
	AIModeEmergency AIMode = "emergency"
)

// PendingState is what the bot expects from a user next.
// Only the fields belonging to Kind are meaningful.
type PendingState struct {
	Kind      StateKind
	Purpose   BirthDatePurpose
	EventKind EventKind
	Mode      AIMode
}

func NoState() PendingState { return PendingState{Kind: StateNone} }

func AwaitingPuppyName() PendingState { return PendingState{Kind: StateAwaitingPuppyName} }

func AwaitingBirthDate(p BirthDatePurpose) PendingState {
	return PendingState{Kind: StateAwaitingBirthDate, Purpose: p}
}

func AwaitingWeight() PendingState { return PendingState{Kind: StateAwaitingWeight} }

func AwaitingScheduleTime(k EventKind) PendingState {
	return PendingState{Kind: StateAwaitingScheduleTime, EventKind: k}
}

func InAIMode(m AIMode) PendingState { return PendingState{Kind: StateAIMode, Mode: m} }

// Active reports whether any flow is pending
func (s PendingState) Active() bool {
	return s.Kind != StateNone
}

func (s PendingState) String() string {
	switch s.Kind {
	case StateAwaitingPuppyName:
		return "awaiting_puppy_name"
	case StateAwaitingBirthDate:
		return fmt.Sprintf("awaiting_birth_date(%s)", s.Purpose)
	case StateAwaitingWeight:
		return "awaiting_weight"
	case StateAwaitingScheduleTime:
		return fmt.Sprintf("awaiting_schedule_time(%s)", s.EventKind)
	case StateAIMode:
		return fmt.Sprintf("ai_mode(%s)", s.Mode)
	default:
		return "none"
	}
}
