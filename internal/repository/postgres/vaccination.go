package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// VaccinationRepo implements repository.VaccinationRepository
type VaccinationRepo struct {
	db *sql.DB
}

// NewVaccinationRepo creates a new vaccination repository
func NewVaccinationRepo(db *sql.DB) *VaccinationRepo {
	return &VaccinationRepo{db: db}
}

// ListVaccinations returns the user's schedule ordered by date
func (r *VaccinationRepo) ListVaccinations(ctx context.Context, userID int64) ([]domain.VaccinationEntry, error) {
	query := `
		SELECT id, user_id, title, scheduled_at, completed
		FROM vaccinations
		WHERE user_id = $1
		ORDER BY scheduled_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.VaccinationEntry
	for rows.Next() {
		var v domain.VaccinationEntry
		if err := rows.Scan(&v.ID, &v.UserID, &v.Title, &v.ScheduledAt, &v.Completed); err != nil {
			return nil, err
		}
		entries = append(entries, v)
	}

	return entries, rows.Err()
}

// ReplaceVaccinationSchedule drops the user's entries, completed ones included, and inserts entries
func (r *VaccinationRepo) ReplaceVaccinationSchedule(ctx context.Context, userID int64, entries []domain.VaccinationEntry) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return replaceVaccinations(ctx, tx, userID, entries)
	})
}

// MarkVaccinationDone flags one entry of the user as completed
func (r *VaccinationRepo) MarkVaccinationDone(ctx context.Context, userID, id int64) error {
	query := `UPDATE vaccinations SET completed = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
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

func replaceVaccinations(ctx context.Context, tx *sql.Tx, userID int64, entries []domain.VaccinationEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM vaccinations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete vaccinations: %w", err)
	}

	query := `
		INSERT INTO vaccinations (user_id, title, scheduled_at, completed)
		VALUES ($1, $2, $3, $4)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, userID, e.Title, e.ScheduledAt, e.Completed); err != nil {
			return fmt.Errorf("insert vaccination %q: %w", e.Title, err)
		}
	}
	return nil
}
