package domain

import "strings"

// CommandCategory groups training commands by difficulty
type CommandCategory string

const (
	CategoryBasic      CommandCategory = "basic"
	CategoryAdvanced   CommandCategory = "advanced"
	CategoryDiscipline CommandCategory = "discipline"
)

var categoryTitles = map[CommandCategory]string{
	CategoryBasic:      "🟢 Базовые",
	CategoryAdvanced:   "🟡 Продвинутые",
	CategoryDiscipline: "🔴 Дисциплина",
}

// Title returns the heading the category is shown under
func (c CommandCategory) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// Categories lists categories in display order
func Categories() []CommandCategory {
	return []CommandCategory{CategoryBasic, CategoryAdvanced, CategoryDiscipline}
}

// Command is a skill the puppy is trained in; Target is the number of
// successful sessions after which the skill counts as learned
type Command struct {
	ID       string
	Name     string
	Category CommandCategory
	Target   int
}

var commands = []Command{
	{ID: "name", Name: "Отклик на кличку", Category: CategoryBasic, Target: 20},
	{ID: "sit", Name: "Сидеть", Category: CategoryBasic, Target: 20},
	{ID: "down", Name: "Лежать", Category: CategoryBasic, Target: 20},
	{ID: "come", Name: "Ко мне", Category: CategoryBasic, Target: 30},
	{ID: "stay", Name: "Ждать", Category: CategoryAdvanced, Target: 30},
	{ID: "paw", Name: "Дай лапу", Category: CategoryAdvanced, Target: 15},
	{ID: "place", Name: "Место", Category: CategoryAdvanced, Target: 25},
	{ID: "leave", Name: "Фу", Category: CategoryDiscipline, Target: 30},
	{ID: "heel", Name: "Рядом", Category: CategoryDiscipline, Target: 40},
}

// Commands returns the trainable commands in display order
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// FindCommand looks a command up by ID; unknown IDs come from stale or forged buttons
func FindCommand(id string) (Command, bool) {
	for _, c := range commands {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}

// CommandProgress is how far the puppy got with one command
type CommandProgress struct {
	Command Command
	Score   int
}

// Percent is Score relative to Target, capped at 100
func (p CommandProgress) Percent() int {
	if p.Command.Target <= 0 || p.Score <= 0 {
		return 0
	}
	pct := p.Score * 100 / p.Command.Target
	if pct > 100 {
		return 100
	}
	return pct
}

const progressBarWidth = 10

// ProgressBar renders Percent as a fixed-width bar
func (p CommandProgress) ProgressBar() string {
	filled := p.Percent() * progressBarWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
}
