package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUser creates the user if not exists
func (r *UserRepo) EnsureUser(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// GetUser returns the user or repository.ErrNotFound
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	var birth sql.NullTime
	query := `SELECT user_id, subscribed, puppy_name, birth_date, created_at FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&u.UserID, &u.Subscribed, &u.PuppyName, &birth, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if birth.Valid {
		u.BirthDate = &birth.Time
	}
	return &u, nil
}

// SetPuppyName stores the puppy name, creating the user when needed
func (r *UserRepo) SetPuppyName(ctx context.Context, userID int64, name string) error {
	query := `
		INSERT INTO users (user_id, puppy_name)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET puppy_name = EXCLUDED.puppy_name
	`
	_, err := r.db.ExecContext(ctx, query, userID, name)
	return err
}

// SetBirthDate stores the birth date and regenerates the vaccination schedule atomically
func (r *UserRepo) SetBirthDate(ctx context.Context, userID int64, birth time.Time, schedule []domain.VaccinationEntry) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO users (user_id, birth_date)
			VALUES ($1, $2)
			ON CONFLICT (user_id)
			DO UPDATE SET birth_date = EXCLUDED.birth_date
		`
		if _, err := tx.ExecContext(ctx, query, userID, birth); err != nil {
			return fmt.Errorf("update birth date: %w", err)
		}
		return replaceVaccinations(ctx, tx, userID, schedule)
	})
}

// Subscribe enables morning tips for the user
func (r *UserRepo) Subscribe(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id, subscribed)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET subscribed = TRUE
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// Unsubscribe disables morning tips for the user
func (r *UserRepo) Unsubscribe(ctx context.Context, userID int64) error {
	query := `UPDATE users SET subscribed = FALSE WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// Subscribers returns IDs of all subscribed users
func (r *UserRepo) Subscribers(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM users WHERE subscribed = TRUE ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ResetUser erases the user; dependent rows go with it through ON DELETE CASCADE
func (r *UserRepo) ResetUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	return err
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
