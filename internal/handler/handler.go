package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/conversation"
	"puppymentor/internal/domain"
)

// Profile is the part of the profile service the menus use
type Profile interface {
	Start(ctx context.Context, userID int64) (*domain.User, error)
	Stop(ctx context.Context, userID int64) error
	LastWeight(ctx context.Context, userID int64) (*domain.WeightEntry, error)
	Vaccinations(ctx context.Context, userID int64) ([]domain.VaccinationEntry, error)
	MarkVaccinationDone(ctx context.Context, userID, id int64) error
}

// Schedule lists and deletes daily events
type Schedule interface {
	List(ctx context.Context, userID int64) ([]domain.ScheduleEvent, error)
	Delete(ctx context.Context, userID int64, id uuid.UUID) error
}

// Tracker records feedings and walks
type Tracker interface {
	LogFeeding(ctx context.Context, userID int64) error
	LogWalk(ctx context.Context, userID int64, success bool) error
	Today(ctx context.Context, userID int64) (domain.ActivityStats, error)
}

// Training reports and records command training progress
type Training interface {
	Progress(ctx context.Context, userID int64) ([]domain.CommandProgress, error)
	Practice(ctx context.Context, userID int64, commandID string) (domain.CommandProgress, error)
}

// Tips generates a tip for a topic
type Tips interface {
	GenerateTip(ctx context.Context, topic string) (string, error)
}

// Resetter erases a user and everything the process holds for them
type Resetter interface {
	ResetUser(ctx context.Context, userID int64) error
}

// TextRouter hands free text to the pending input flow
type TextRouter interface {
	HandleText(ctx context.Context, userID int64, text string) bool
}

// Deps are the collaborators of the handler
type Deps struct {
	Profile  Profile
	Schedule Schedule
	Tracker  Tracker
	Training Training
	Tips     Tips
	Reset    Resetter
	States   *conversation.Store
	Machine  TextRouter
	Location *time.Location
}

const requestTimeout = 90 * time.Second

// Handler manages all bot interactions
type Handler struct {
	ctx    context.Context
	bot    *tele.Bot
	deps   Deps
	now    func() time.Time
	pick   func(n int) int
	logger *zap.Logger

	// Per-user locks serialize button presses that write data
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance; ctx bounds every request it serves
func NewHandler(ctx context.Context, bot *tele.Bot, deps Deps, logger *zap.Logger) *Handler {
	return &Handler{
		ctx:           ctx,
		bot:           bot,
		deps:          deps,
		now:           time.Now,
		pick:          randomIndex,
		logger:        logger,
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/menu", h.handleMainMenu)
	h.bot.Handle("/cancel", h.handleCancel)
	h.bot.Handle("/stop", h.handleStop)
	h.bot.Handle("/reset", h.handleReset)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Static buttons
	h.bot.Handle(&btnMainMenu, h.handleMainMenu)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnSchedule, h.handleSchedule)
	h.bot.Handle(&btnScheduleAdd, h.handleScheduleAdd)
	h.bot.Handle(&btnHealth, h.handleHealth)
	h.bot.Handle(&btnVaccinations, h.handleVaccinations)
	h.bot.Handle(&btnWeight, h.handleWeight)
	h.bot.Handle(&btnBirthDate, h.handleBirthDate)
	h.bot.Handle(&btnTracker, h.handleTracker)
	h.bot.Handle(&btnFeed, h.locked(h.handleFeed))
	h.bot.Handle(&btnWalkOK, h.locked(h.handleWalk(true)))
	h.bot.Handle(&btnWalkFail, h.locked(h.handleWalk(false)))
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnTraining, h.handleTraining)
	h.bot.Handle(&btnTrainingSelect, h.handleTrainingSelect)
	h.bot.Handle(&btnAssistant, h.handleAssistant)
	h.bot.Handle(&btnAskNormal, h.handleAsk(domain.AIModeNormal))
	h.bot.Handle(&btnAskEmergency, h.handleAsk(domain.AIModeEmergency))
	h.bot.Handle(&btnTip, h.handleTip)

	// Buttons carrying data
	h.bot.Handle(&tele.Btn{Unique: uniqueScheduleKind}, h.handleScheduleKind)
	h.bot.Handle(&tele.Btn{Unique: uniqueScheduleDelete}, h.locked(h.handleScheduleDelete))
	h.bot.Handle(&tele.Btn{Unique: uniqueVaccinationDone}, h.locked(h.handleVaccinationDone))
	h.bot.Handle(&tele.Btn{Unique: uniqueTrainingCommand}, h.locked(h.handleTrainingCommand))

	// Everything else is a stale or unknown button
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// requestContext bounds a single update
func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(h.ctx, requestTimeout)
}

// locked serializes fn per user
func (h *Handler) locked(fn tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		userID := c.Sender().ID

		h.callbackMux.Lock()
		lock, exists := h.callbackLocks[userID]
		if !exists {
			lock = &sync.Mutex{}
			h.callbackLocks[userID] = lock
		}
		h.callbackMux.Unlock()

		lock.Lock()
		defer lock.Unlock()

		return fn(c)
	}
}

// show edits the message behind a button or sends a new one for commands
func (h *Handler) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

// fail logs err and tells the user something went wrong
func (h *Handler) fail(c tele.Context, msg string, err error) error {
	h.logger.Error(msg, zap.Int64("user_id", c.Sender().ID), zap.Error(err))
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: textError})
	}
	return c.Send(textError)
}
