package postgres

import (
	"context"
	"database/sql"
)

// TrainingRepo implements repository.TrainingRepository
type TrainingRepo struct {
	db *sql.DB
}

// NewTrainingRepo creates a new training progress repository
func NewTrainingRepo(db *sql.DB) *TrainingRepo {
	return &TrainingRepo{db: db}
}

// IncrementCommand adds one session to the command, creating the row on first use
func (r *TrainingRepo) IncrementCommand(ctx context.Context, userID int64, command string) (int, error) {
	query := `
		INSERT INTO command_progress (user_id, command, score, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id, command)
		DO UPDATE SET score = command_progress.score + 1, updated_at = NOW()
		RETURNING score
	`
	var score int
	if err := r.db.QueryRowContext(ctx, query, userID, command).Scan(&score); err != nil {
		return 0, err
	}
	return score, nil
}

// CommandScores returns scores keyed by command; commands never practiced are absent
func (r *TrainingRepo) CommandScores(ctx context.Context, userID int64) (map[string]int, error) {
	query := `SELECT command, score FROM command_progress WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[string]int)
	for rows.Next() {
		var (
			command string
			score   int
		)
		if err := rows.Scan(&command, &score); err != nil {
			return nil, err
		}
		scores[command] = score
	}
	return scores, rows.Err()
}
