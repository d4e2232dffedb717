// Package app owns the process-wide scheduling state: the trigger registry and the
// per-user pending input store. Handlers and jobs reach them only through App.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"puppymentor/internal/conversation"
	"puppymentor/internal/timer"
)

// Reminders rebuilds and drops per-user reminder triggers
type Reminders interface {
	RescheduleAll(ctx context.Context) error
	CancelUser(userID int64)
}

// Jobs registers the fixed daily jobs
type Jobs interface {
	Register(registry *timer.Registry) error
}

// Eraser deletes a user's stored records
type Eraser interface {
	Erase(ctx context.Context, userID int64) error
}

// Flusher makes buffered writes durable and stops accepting new ones
type Flusher interface {
	Close(ctx context.Context) error
}

// App is the lifecycle owner of the scheduling engine
type App struct {
	registry  *timer.Registry
	states    *conversation.Store
	reminders Reminders
	jobs      Jobs
	profiles  Eraser
	writes    Flusher
	logger    *zap.Logger
}

// New creates an App around registry and states
func New(
	registry *timer.Registry,
	states *conversation.Store,
	reminders Reminders,
	jobs Jobs,
	profiles Eraser,
	writes Flusher,
	logger *zap.Logger,
) *App {
	return &App{
		registry:  registry,
		states:    states,
		reminders: reminders,
		jobs:      jobs,
		profiles:  profiles,
		writes:    writes,
		logger:    logger,
	}
}

// Registry returns the trigger registry
func (a *App) Registry() *timer.Registry { return a.registry }

// States returns the pending input store
func (a *App) States() *conversation.Store { return a.states }

// Start rebuilds every user's reminders from storage, registers the fixed jobs and starts firing.
// A user whose reminders could not be rebuilt does not stop the others.
func (a *App) Start(ctx context.Context) error {
	if err := a.reminders.RescheduleAll(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("restore reminders: %w", err)
		}
		a.logger.Error("Some reminders were not restored", zap.Error(err))
	}

	if err := a.jobs.Register(a.registry); err != nil {
		var consistencyErr *timer.ScheduleConsistencyError
		if !errors.As(err, &consistencyErr) {
			return fmt.Errorf("register daily jobs: %w", err)
		}
		a.logger.Error("Some daily jobs were not registered", zap.Error(err))
	}

	a.registry.Start()
	a.logger.Info("Scheduler started", zap.Int("triggers", a.registry.Count()))
	return nil
}

// Shutdown stops all triggers, waits for running ones and flushes buffered writes
func (a *App) Shutdown(ctx context.Context) error {
	a.registry.Stop()
	a.logger.Info("Scheduler stopped")

	if err := a.writes.Close(ctx); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}
	return nil
}

// ResetUser cancels the user's triggers, drops pending input and erases stored data
func (a *App) ResetUser(ctx context.Context, userID int64) error {
	a.reminders.CancelUser(userID)
	a.states.Clear(userID)

	if err := a.profiles.Erase(ctx, userID); err != nil {
		return fmt.Errorf("erase user: %w", err)
	}
	return nil
}
