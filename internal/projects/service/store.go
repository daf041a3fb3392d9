package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// Store is the persistence gateway the project services depend on. The
// Mongo repository satisfies it; tests use an in-memory fake with the
// same conditional-update semantics.
type Store interface {
	Insert(ctx context.Context, p *domain.Project) error
	List(ctx context.Context) ([]domain.Project, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	FindTask(ctx context.Context, projectID, taskID primitive.ObjectID) (*domain.Task, error)
	UpdateProjectInfo(ctx context.Context, id primitive.ObjectID, title, description string) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	NextTaskIndex(ctx context.Context, projectID primitive.ObjectID) (int, error)
	PushTask(ctx context.Context, projectID primitive.ObjectID, task *domain.Task) error
	PullTask(ctx context.Context, projectID, taskID primitive.ObjectID) (int64, error)
	SetTaskInfo(ctx context.Context, projectID, taskID primitive.ObjectID, title, description string) error
	SetTaskPlacement(ctx context.Context, projectID, taskID primitive.ObjectID, stage domain.Stage, order int) (int64, error)
	PushSubtask(ctx context.Context, projectID, taskID primitive.ObjectID, sub *domain.Subtask) error
	PushComment(ctx context.Context, projectID, taskID primitive.ObjectID, comment *domain.Comment) error
	PullComment(ctx context.Context, projectID, taskID, commentID primitive.ObjectID) (int64, error)
	Replace(ctx context.Context, p *domain.Project) error
}

// Invalidator drops cached read models for a project after a mutation.
// A nil implementation is a no-op.
type Invalidator interface {
	Invalidate(ctx context.Context, projectID string) error
}
