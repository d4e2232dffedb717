package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinPuppyNameLen = 2
	MaxPuppyNameLen = 30
	MaxWeightKg     = 100.0

	// DateLayout is the DD.MM.YYYY format users type birth dates in
	DateLayout = "02.01.2006"
)

// ValidationError means user input was rejected and the user should be asked again
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ParsePuppyName trims the input and checks its length in characters
func ParsePuppyName(s string) (string, error) {
	name := strings.TrimSpace(s)
	n := utf8.RuneCountInString(name)
	if n < MinPuppyNameLen || n > MaxPuppyNameLen {
		return "", invalid("puppy_name", fmt.Sprintf("length %d out of range", n))
	}
	return name, nil
}

var birthDateRe = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)

// ParseBirthDate parses strict DD.MM.YYYY into local midnight of loc.
// Dates the calendar would normalize (31.02) are rejected.
func ParseBirthDate(s string, loc *time.Location) (time.Time, error) {
	m := birthDateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, invalid("birth_date", "expected DD.MM.YYYY")
	}

	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])

	if d < 1 || d > 31 {
		return time.Time{}, invalid("birth_date", "day out of range")
	}
	if mo < 1 || mo > 12 {
		return time.Time{}, invalid("birth_date", "month out of range")
	}

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, loc)
	if t.Day() != d || int(t.Month()) != mo || t.Year() != y {
		return time.Time{}, invalid("birth_date", "no such calendar date")
	}
	return t, nil
}

// FormatDate renders a timestamp as DD.MM.YYYY in loc
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// weightRe admits plain decimals only. Hex, exponent and signed forms never reach ParseFloat.
var weightRe = regexp.MustCompile(`^\d+([.,]\d+)?$`)

// ParseWeight accepts "12.5" and "12,5"; valid range is (0, 100] kg
func ParseWeight(s string) (float64, error) {
	norm := strings.TrimSpace(s)
	if !weightRe.MatchString(norm) {
		return 0, invalid("weight", "not a number")
	}
	w, err := strconv.ParseFloat(strings.Replace(norm, ",", ".", 1), 64)
	if err != nil {
		return 0, invalid("weight", "not a number")
	}
	if w <= 0 || w > MaxWeightKg {
		return 0, invalid("weight", "out of range")
	}
	return w, nil
}

var timeOfDayRe = regexp.MustCompile(`^(\d{1,2})[:.\- ](\d{2})$`)

// ParseTimeOfDay accepts HH:MM with ':', '.', '-' or a space as separator
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, invalid("time", "expected HH:MM")
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])

	t := TimeOfDay{Hour: h, Minute: min}
	if !t.Valid() {
		return TimeOfDay{}, invalid("time", "out of range")
	}
	return t, nil
}
