// Package conversation decides which pending flow consumes a user's free-text message.
package conversation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"puppymentor/internal/domain"
)

// Menu is the keyboard attached to a reply
type Menu int

const (
	MenuNone Menu = iota
	MenuMain
	MenuSchedule
	MenuHealth
	MenuAssistant
)

// Reply is a message to the user
type Reply struct {
	Text string
	Menu Menu
}

// Responder delivers replies in the user's chat
type Responder interface {
	Respond(ctx context.Context, userID int64, reply Reply) bool
	Typing(ctx context.Context, userID int64)
}

// Profile stores values collected by the flows
type Profile interface {
	SetPuppyName(ctx context.Context, userID int64, name string) error
	SetBirthDate(ctx context.Context, userID int64, birth time.Time) error
	LogWeight(ctx context.Context, userID int64, weight float64) (domain.WeightEntry, error)
}

// Scheduler adds schedule events
type Scheduler interface {
	Add(ctx context.Context, userID int64, kind domain.EventKind, at domain.TimeOfDay) (*domain.ScheduleEvent, error)
}

// Assistant answers free-form questions
type Assistant interface {
	AnswerQuestion(ctx context.Context, question string, mode domain.AIMode) (string, error)
}

const (
	textNameInvalid      = "❌ Имя должно быть от 2 до 30 символов. Попробуйте ещё раз:"
	textBirthDateInvalid = "❌ Неверный формат даты. Введите дату в формате ДД.ММ.ГГГГ (например, 25.05.2025):"
	textWeightInvalid    = "❌ Введите вес числом больше 0 и не больше 100 кг, например 12.5:"
	textTimeInvalid      = "❌ Неверный формат времени. Введите время в формате ЧЧ:ММ (например, 08:30):"
	textAIFailed         = "😔 Произошла ошибка. Попробуйте ещё раз."
	textSaveFailed       = "⚠️ Не удалось сохранить данные. Попробуйте позже."
)

type route struct {
	name   string
	match  func(st domain.PendingState) bool
	handle func(ctx context.Context, userID int64, st domain.PendingState, text string)
}

// Machine dispatches free text to the flow selected by the user's pending state
type Machine struct {
	store     *Store
	profile   Profile
	scheduler Scheduler
	assistant Assistant
	responder Responder
	loc       *time.Location
	logger    *zap.Logger

	routes []route
}

// NewMachine creates a machine over store
func NewMachine(
	store *Store,
	profile Profile,
	scheduler Scheduler,
	assistant Assistant,
	responder Responder,
	loc *time.Location,
	logger *zap.Logger,
) *Machine {
	m := &Machine{
		store:     store,
		profile:   profile,
		scheduler: scheduler,
		assistant: assistant,
		responder: responder,
		loc:       loc,
		logger:    logger,
	}

	// checked top to bottom, first match consumes the message
	m.routes = []route{
		{name: "puppy_name", match: kindIs(domain.StateAwaitingPuppyName), handle: m.handlePuppyName},
		{name: "birth_date_registration", match: birthDateFor(domain.PurposeRegistration), handle: m.handleBirthDate},
		{name: "birth_date_update", match: birthDateFor(domain.PurposeUpdate), handle: m.handleBirthDate},
		{name: "weight", match: kindIs(domain.StateAwaitingWeight), handle: m.handleWeight},
		{name: "schedule_time", match: kindIs(domain.StateAwaitingScheduleTime), handle: m.handleScheduleTime},
		{name: "ai_mode", match: kindIs(domain.StateAIMode), handle: m.handleAIQuestion},
	}
	return m
}

func kindIs(k domain.StateKind) func(domain.PendingState) bool {
	return func(st domain.PendingState) bool { return st.Kind == k }
}

func birthDateFor(p domain.BirthDatePurpose) func(domain.PendingState) bool {
	return func(st domain.PendingState) bool {
		return st.Kind == domain.StateAwaitingBirthDate && st.Purpose == p
	}
}

// Precedence returns route names in dispatch order
func (m *Machine) Precedence() []string {
	names := make([]string, 0, len(m.routes))
	for _, r := range m.routes {
		names = append(names, r.name)
	}
	return names
}

// HandleText lets the pending flow consume text and reports whether one did.
// The user's lock is held for the whole dispatch.
func (m *Machine) HandleText(ctx context.Context, userID int64, text string) bool {
	consumed := false

	m.store.withUser(userID, func() {
		st := m.store.get(userID)
		for _, r := range m.routes {
			if !r.match(st) {
				continue
			}
			m.logger.Debug("Dispatching text", zap.Int64("user_id", userID), zap.String("route", r.name))
			r.handle(ctx, userID, st, text)
			consumed = true
			return
		}
	})

	return consumed
}

func (m *Machine) reply(ctx context.Context, userID int64, text string, menu Menu) {
	m.responder.Respond(ctx, userID, Reply{Text: text, Menu: menu})
}

// collaboratorFailed logs err, drops the pending flow and tells the user
func (m *Machine) collaboratorFailed(ctx context.Context, userID int64, st domain.PendingState, err error) {
	m.logger.Error("Failed to complete input flow",
		zap.Int64("user_id", userID),
		zap.String("state", st.String()),
		zap.Error(err),
	)
	m.store.set(userID, domain.NoState())
	m.reply(ctx, userID, textSaveFailed, MenuMain)
}

func (m *Machine) handlePuppyName(ctx context.Context, userID int64, st domain.PendingState, text string) {
	name, err := domain.ParsePuppyName(text)
	if err != nil {
		m.reply(ctx, userID, textNameInvalid, MenuNone)
		return
	}

	if err := m.profile.SetPuppyName(ctx, userID, name); err != nil {
		m.collaboratorFailed(ctx, userID, st, err)
		return
	}

	m.store.set(userID, domain.AwaitingBirthDate(domain.PurposeRegistration))
	m.reply(ctx, userID,
		fmt.Sprintf("Отлично! 🐶 Теперь введите дату рождения %s в формате ДД.ММ.ГГГГ (например, 25.05.2025):", name),
		MenuNone)
}

func (m *Machine) handleBirthDate(ctx context.Context, userID int64, st domain.PendingState, text string) {
	birth, err := domain.ParseBirthDate(text, m.loc)
	if err != nil {
		m.reply(ctx, userID, textBirthDateInvalid, MenuNone)
		return
	}

	if err := m.profile.SetBirthDate(ctx, userID, birth); err != nil {
		m.collaboratorFailed(ctx, userID, st, err)
		return
	}

	m.store.set(userID, domain.NoState())

	if st.Purpose == domain.PurposeRegistration {
		m.reply(ctx, userID,
			"🎉 Регистрация завершена!\n\nЯ составил график прививок и буду напоминать о важных датах. Выберите раздел:",
			MenuMain)
		return
	}
	m.reply(ctx, userID,
		fmt.Sprintf("✅ Дата рождения обновлена: %s\nГрафик прививок пересчитан.", domain.FormatDate(birth, m.loc)),
		MenuHealth)
}

func (m *Machine) handleWeight(ctx context.Context, userID int64, st domain.PendingState, text string) {
	weight, err := domain.ParseWeight(text)
	if err != nil {
		m.reply(ctx, userID, textWeightInvalid, MenuNone)
		return
	}

	entry, err := m.profile.LogWeight(ctx, userID, weight)
	if err != nil {
		m.collaboratorFailed(ctx, userID, st, err)
		return
	}

	m.store.set(userID, domain.NoState())
	m.reply(ctx, userID, WeightLoggedText(entry), MenuHealth)
}

// WeightLoggedText confirms a weighing
func WeightLoggedText(e domain.WeightEntry) string {
	w := strconv.FormatFloat(e.Weight, 'f', -1, 64)
	if e.AgeWeeks > 0 {
		return fmt.Sprintf("✅ Вес записан: %s кг (возраст: %d нед.)", w, e.AgeWeeks)
	}
	return fmt.Sprintf("✅ Вес записан: %s кг", w)
}

func (m *Machine) handleScheduleTime(ctx context.Context, userID int64, st domain.PendingState, text string) {
	at, err := domain.ParseTimeOfDay(text)
	if err != nil {
		m.reply(ctx, userID, textTimeInvalid, MenuNone)
		return
	}

	ev, err := m.scheduler.Add(ctx, userID, st.EventKind, at)
	switch {
	case ev == nil:
		m.collaboratorFailed(ctx, userID, st, err)
		return
	case err != nil:
		// The event is stored, only its reminders lag behind.
		m.logger.Warn("Event saved with reminder error", zap.Int64("user_id", userID), zap.Error(err))
	}

	m.store.set(userID, domain.NoState())
	m.reply(ctx, userID,
		fmt.Sprintf("✅ Добавлено: %s в %s\n🔔 Я напомню заранее.", ev.DisplayName(), ev.At),
		MenuSchedule)
}

// handleAIQuestion leaves AI mode whatever the outcome; one question per activation
func (m *Machine) handleAIQuestion(ctx context.Context, userID int64, st domain.PendingState, text string) {
	m.store.set(userID, domain.NoState())
	m.responder.Typing(ctx, userID)

	answer, err := m.assistant.AnswerQuestion(ctx, text, st.Mode)
	if err != nil {
		m.logger.Error("Assistant failed", zap.Int64("user_id", userID), zap.String("mode", string(st.Mode)), zap.Error(err))
		m.reply(ctx, userID, textAIFailed, MenuAssistant)
		return
	}

	m.reply(ctx, userID, answer, MenuAssistant)
}
