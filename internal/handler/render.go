package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"puppymentor/internal/domain"
)

func scheduleText(events []domain.ScheduleEvent) string {
	if len(events) == 0 {
		return "📅 Расписание пусто.\n\nДобавьте кормления, прогулки и тренировки, и я напомню о них заранее."
	}

	var b strings.Builder
	b.WriteString("📅 Расписание на каждый день:\n\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "%s  %s\n", ev.At, ev.DisplayName())
	}
	b.WriteString("\nНажмите на событие, чтобы удалить его.")
	return b.String()
}

func vaccinationsText(entries []domain.VaccinationEntry, now time.Time, loc *time.Location) string {
	if len(entries) == 0 {
		return textNoBirth
	}

	var b strings.Builder
	b.WriteString("💉 График прививок:\n\n")
	for _, e := range entries {
		icon := "⏳"
		switch {
		case e.Completed:
			icon = "✅"
		case domain.DaysLeft(e.ScheduledAt, now) < 0:
			icon = "⚠️"
		}
		fmt.Fprintf(&b, "%s %s\n     %s (%s)\n\n",
			icon, e.Title, domain.DisplayDay(e.ScheduledAt, now, loc), domain.FormatDate(e.ScheduledAt, loc))
	}
	return strings.TrimRight(b.String(), "\n")
}

func statsText(s domain.ActivityStats, loc *time.Location) string {
	text := fmt.Sprintf("📊 Сегодня:\n\n🍖 Кормлений: %d\n🚶 Прогулок с успехом: %d\n💦 Неудач дома: %d",
		s.Feedings, s.WalksOK, s.Accidents)
	if s.LastFeeding != nil {
		text += "\n\nПоследнее кормление в " + s.LastFeeding.In(loc).Format("15:04")
	}
	return text
}

func trainingText(progress []domain.CommandProgress) string {
	var b strings.Builder
	b.WriteString("🎓 Прогресс дрессировки:\n")
	for _, cat := range domain.Categories() {
		header := false
		for _, p := range progress {
			if p.Command.Category != cat {
				continue
			}
			if !header {
				fmt.Fprintf(&b, "\n%s\n", cat.Title())
				header = true
			}
			fmt.Fprintf(&b, "%s\n%s %d/%d (%d%%)\n",
				p.Command.Name, p.ProgressBar(), p.Score, p.Command.Target, p.Percent())
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func weightPrompt(last *domain.WeightEntry, now time.Time, loc *time.Location) string {
	if last == nil {
		return textAskWeight
	}
	return fmt.Sprintf("%s\n\nПрошлое взвешивание: %s кг (%s)",
		textAskWeight,
		strconv.FormatFloat(last.Weight, 'f', -1, 64),
		domain.DisplayDay(last.LoggedAt, now, loc),
	)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}
