package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

// ErrUnknownCommand is returned for a command ID outside the catalogue
var ErrUnknownCommand = errors.New("unknown training command")

// TrainingService tracks how far the puppy got with each command
type TrainingService struct {
	progress repository.TrainingRepository
	logger   *zap.Logger
}

// NewTrainingService creates a new training service
func NewTrainingService(progress repository.TrainingRepository, logger *zap.Logger) *TrainingService {
	return &TrainingService{progress: progress, logger: logger}
}

// Progress returns every command in catalogue order, with zero for commands never practiced
func (s *TrainingService) Progress(ctx context.Context, userID int64) ([]domain.CommandProgress, error) {
	scores, err := s.progress.CommandScores(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load training progress: %w", err)
	}

	cmds := domain.Commands()
	out := make([]domain.CommandProgress, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, domain.CommandProgress{Command: c, Score: scores[c.ID]})
	}
	return out, nil
}

// Practice records one successful session of the command
func (s *TrainingService) Practice(ctx context.Context, userID int64, commandID string) (domain.CommandProgress, error) {
	cmd, ok := domain.FindCommand(commandID)
	if !ok {
		return domain.CommandProgress{}, ErrUnknownCommand
	}

	score, err := s.progress.IncrementCommand(ctx, userID, cmd.ID)
	if err != nil {
		return domain.CommandProgress{}, fmt.Errorf("record training session: %w", err)
	}

	p := domain.CommandProgress{Command: cmd, Score: score}
	if score == cmd.Target {
		s.logger.Info("Command learned", zap.Int64("user_id", userID), zap.String("command", cmd.ID))
	}
	return p, nil
}
