package domain

import "time"

var monthsShort = []string{
	"", "янв", "фев", "мар", "апр", "мая", "июн",
	"июл", "авг", "сен", "окт", "ноя", "дек",
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DisplayDay returns a user-friendly date relative to now, both taken in loc
func DisplayDay(date, now time.Time, loc *time.Location) string {
	date = date.In(loc)
	now = now.In(loc)

	if sameDay(date, now) {
		return "Сегодня"
	}
	if sameDay(date, now.AddDate(0, 0, 1)) {
		return "Завтра"
	}
	if sameDay(date, now.AddDate(0, 0, -1)) {
		return "Вчера"
	}

	return date.Format("2 ") + monthsShort[date.Month()] + date.Format(" 2006")
}

// StartOfDay returns local midnight of t in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
