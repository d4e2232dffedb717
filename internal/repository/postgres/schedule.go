package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// ScheduleRepo implements repository.ScheduleRepository
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo creates a new schedule repository
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

const scheduleColumns = `id, user_id, kind, label, hour, minute, active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (domain.ScheduleEvent, error) {
	var ev domain.ScheduleEvent
	var kind string
	err := row.Scan(&ev.ID, &ev.UserID, &kind, &ev.Label, &ev.At.Hour, &ev.At.Minute, &ev.Active, &ev.CreatedAt)
	ev.Kind = domain.EventKind(kind)
	return ev, err
}

// ListScheduleEvents returns the user's active events ordered by time of day
func (r *ScheduleRepo) ListScheduleEvents(ctx context.Context, userID int64) ([]domain.ScheduleEvent, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_events
		WHERE user_id = $1 AND active = TRUE
		ORDER BY hour, minute, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ScheduleEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// GetScheduleEvent returns an active event of the user or repository.ErrNotFound
func (r *ScheduleRepo) GetScheduleEvent(ctx context.Context, userID int64, id uuid.UUID) (*domain.ScheduleEvent, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedule_events
		WHERE id = $1 AND user_id = $2 AND active = TRUE
	`
	ev, err := scanEvent(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListUsersWithActiveEvents returns IDs of users having at least one active event
func (r *ScheduleRepo) ListUsersWithActiveEvents(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM schedule_events WHERE active = TRUE ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

// AddScheduleEvent inserts a new event
func (r *ScheduleRepo) AddScheduleEvent(ctx context.Context, ev *domain.ScheduleEvent) error {
	query := `
		INSERT INTO schedule_events (id, user_id, kind, label, hour, minute, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		ev.ID, ev.UserID, string(ev.Kind), ev.Label, ev.At.Hour, ev.At.Minute, ev.Active, ev.CreatedAt)
	return err
}

// DeleteScheduleEvent removes an event of the user, repository.ErrNotFound when there is none
func (r *ScheduleRepo) DeleteScheduleEvent(ctx context.Context, userID int64, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
