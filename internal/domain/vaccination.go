package domain

import (
	"math"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

// VaccinationEntry is one planned procedure derived from the puppy's birth date
type VaccinationEntry struct {
	ID          int64
	UserID      int64
	Title       string
	ScheduledAt time.Time
	Completed   bool
}

type vaccinationOffset struct {
	offset time.Duration
	title  string
}

// Offsets from birth; the annual revaccination uses a 30-day month.
var vaccinationPlan = []vaccinationOffset{
	{7 * week, "Дегельминтизация перед первой вакцинацией"},
	{8 * week, "Первая комплексная вакцинация (DHPPi+L)"},
	{11 * week, "Дегельминтизация перед второй вакцинацией"},
	{12 * week, "Вторая комплексная вакцинация (DHPPi+L)"},
	{15 * week, "Дегельминтизация перед третьей вакцинацией"},
	{16 * week, "Третья вакцинация (DHPPi+L) и бешенство"},
	{12 * month, "Ежегодная ревакцинация"},
}

// BuildVaccinationSchedule returns the full, not yet completed schedule for a birth date
func BuildVaccinationSchedule(userID int64, birth time.Time) []VaccinationEntry {
	entries := make([]VaccinationEntry, 0, len(vaccinationPlan))
	for _, p := range vaccinationPlan {
		entries = append(entries, VaccinationEntry{
			UserID:      userID,
			Title:       p.title,
			ScheduledAt: birth.Add(p.offset),
		})
	}
	return entries
}

// DaysLeft returns ceil((at - now) / 1 day)
func DaysLeft(at, now time.Time) int {
	d := at.Sub(now)
	return int(math.Ceil(float64(d) / float64(day)))
}

// reminderDays are the days-left values on which a vaccination reminder goes out
var reminderDays = map[int]bool{3: true, 1: true, 0: true}

// DueForReminder reports whether an entry should be announced today
func (v VaccinationEntry) DueForReminder(now time.Time) (int, bool) {
	if v.Completed {
		return 0, false
	}
	left := DaysLeft(v.ScheduledAt, now)
	return left, reminderDays[left]
}
