package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// Placement is the result of one per-task reorder command. Modified is
// the store's modified count so callers can see exactly which writes
// landed when a reorder is interrupted midway.
type Placement struct {
	TaskID   string       `json:"task_id"`
	Stage    domain.Stage `json:"stage"`
	Order    int          `json:"order"`
	Modified int64        `json:"modified"`
}

// Reorder applies a full board layout: every task id listed in a column
// gets that column's stage and its position as order. Tasks not
// mentioned are untouched. The writes are independent conditional
// updates, NOT a transaction; on a storage error the placements applied
// so far are returned alongside the error, and the whole layout can be
// resubmitted safely because each command is idempotent.
func (s *TaskService) Reorder(ctx context.Context, projectID string, columns map[string][]string) ([]Placement, error) {
	pid, err := parseID(projectID)
	if err != nil {
		return nil, err
	}

	type command struct {
		placement Placement
		taskID    primitive.ObjectID
	}

	commands := make([]command, 0, 16)
	for name, taskIDs := range columns {
		stage := domain.Stage(name)
		if !stage.Valid() {
			return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrValidation, name)
		}
		for pos, rawID := range taskIDs {
			tid, err := parseID(rawID)
			if err != nil {
				return nil, err
			}
			commands = append(commands, command{
				placement: Placement{TaskID: rawID, Stage: stage, Order: pos},
				taskID:    tid,
			})
		}
	}

	// Make sure the project exists before touching any task; after this
	// point partial application is possible and reported.
	if _, err := s.store.FindByID(ctx, pid); err != nil {
		return nil, err
	}

	applied := make([]Placement, 0, len(commands))
	for _, cmd := range commands {
		modified, err := s.store.SetTaskPlacement(ctx, pid, cmd.taskID, cmd.placement.Stage, cmd.placement.Order)
		if err != nil {
			return applied, fmt.Errorf("reorder task %s: %w", cmd.placement.TaskID, err)
		}
		cmd.placement.Modified = modified
		applied = append(applied, cmd.placement)
	}

	s.log.Info("board reordered",
		zap.String("project_id", projectID),
		zap.Int("placements", len(applied)))
	return applied, s.invalidate(ctx, projectID)
}
