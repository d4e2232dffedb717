package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"puppymentor/internal/domain"
)

// JournalRepo implements repository.JournalRepository.
// Inserts go through the write buffer; reads flush it first.
// Inserts for users erased while the write was queued become no-ops.
type JournalRepo struct {
	db  *sql.DB
	buf *WriteBuffer
}

// NewJournalRepo creates a new journal repository
func NewJournalRepo(db *sql.DB, buf *WriteBuffer) *JournalRepo {
	return &JournalRepo{db: db, buf: buf}
}

// LogWeight records a weighing
func (r *JournalRepo) LogWeight(ctx context.Context, e domain.WeightEntry) error {
	query := `
		INSERT INTO weights (user_id, weight, age_weeks, logged_at)
		SELECT $1::bigint, $2::double precision, $3::integer, $4::timestamptz
		WHERE EXISTS (SELECT 1 FROM users WHERE user_id = $1)
	`
	return r.buf.Enqueue(ctx, query, e.UserID, e.Weight, e.AgeWeeks, e.LoggedAt)
}

// LastWeight returns the most recent weighing or nil when there is none
func (r *JournalRepo) LastWeight(ctx context.Context, userID int64) (*domain.WeightEntry, error) {
	if err := r.buf.Flush(ctx); err != nil {
		return nil, err
	}

	var e domain.WeightEntry
	query := `
		SELECT user_id, weight, age_weeks, logged_at
		FROM weights
		WHERE user_id = $1
		ORDER BY logged_at DESC
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&e.UserID, &e.Weight, &e.AgeWeeks, &e.LoggedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LogFeeding records a feeding
func (r *JournalRepo) LogFeeding(ctx context.Context, userID int64, at time.Time) error {
	query := `
		INSERT INTO feedings (user_id, fed_at)
		SELECT $1::bigint, $2::timestamptz
		WHERE EXISTS (SELECT 1 FROM users WHERE user_id = $1)
	`
	return r.buf.Enqueue(ctx, query, userID, at)
}

// LogWalk records a walk; success is false for an accident at home
func (r *JournalRepo) LogWalk(ctx context.Context, userID int64, success bool, at time.Time) error {
	query := `
		INSERT INTO walks (user_id, success, walked_at)
		SELECT $1::bigint, $2::boolean, $3::timestamptz
		WHERE EXISTS (SELECT 1 FROM users WHERE user_id = $1)
	`
	return r.buf.Enqueue(ctx, query, userID, success, at)
}

// TodayStats aggregates feedings and walks logged at or after since
func (r *JournalRepo) TodayStats(ctx context.Context, userID int64, since time.Time) (domain.ActivityStats, error) {
	var stats domain.ActivityStats
	if err := r.buf.Flush(ctx); err != nil {
		return stats, err
	}

	var lastFeeding sql.NullTime
	query := `
		SELECT
			(SELECT COUNT(*) FROM feedings WHERE user_id = $1 AND fed_at >= $2),
			(SELECT MAX(fed_at) FROM feedings WHERE user_id = $1 AND fed_at >= $2),
			(SELECT COUNT(*) FROM walks WHERE user_id = $1 AND walked_at >= $2 AND success = TRUE),
			(SELECT COUNT(*) FROM walks WHERE user_id = $1 AND walked_at >= $2 AND success = FALSE)
	`
	err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&stats.Feedings, &lastFeeding, &stats.WalksOK, &stats.Accidents)
	if err != nil {
		return stats, err
	}

	if lastFeeding.Valid {
		stats.LastFeeding = &lastFeeding.Time
	}
	return stats, nil
}

// DeleteOlderThan removes feeding and walk records logged before the cutoff
func (r *JournalRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if err := r.buf.Flush(ctx); err != nil {
		return 0, err
	}

	var total int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, query := range []string{
			`DELETE FROM feedings WHERE fed_at < $1`,
			`DELETE FROM walks WHERE walked_at < $1`,
		} {
			res, err := tx.ExecContext(ctx, query, before)
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
			n, _ := res.RowsAffected()
			total += n
		}
		return nil
	})
	return total, err
}

// Flush makes buffered writes durable
func (r *JournalRepo) Flush(ctx context.Context) error {
	return r.buf.Flush(ctx)
}
