package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// TaskService handles the task lifecycle inside a project aggregate:
// creation/ordering, subtasks with progress derivation, and comments.
type TaskService struct {
	store Store
	cache Invalidator
	log   *zap.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(store Store, cache Invalidator, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{store: store, cache: cache, log: log}
}

// AddTask appends a new task to the project board. Order is the current
// task count snapshot (position in the Requested column); Index comes
// from the per-project sequence counter and is unique even when two adds
// race.
func (s *TaskService) AddTask(ctx context.Context, projectID, title, description string) (*domain.Task, error) {
	pid, err := parseID(projectID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	p, err := s.store.FindByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	index, err := s.store.NextTaskIndex(ctx, pid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &domain.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Stage:       domain.StageRequested,
		Order:       len(p.Tasks),
		Index:       index,
		Priority:    domain.PriorityMedium,
		AssignedTo:  []primitive.ObjectID{},
		Labels:      []string{},
		Subtasks:    []domain.Subtask{},
		Comments:    []domain.Comment{},
		Attachments: []domain.Attachment{},
		TimeEntries: []domain.TimeEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PushTask(ctx, pid, task); err != nil {
		return nil, err
	}
	s.log.Info("task added",
		zap.String("project_id", projectID),
		zap.String("task_id", task.ID.Hex()),
		zap.Int("index", task.Index))
	return task, s.invalidate(ctx, projectID)
}

// GetTask returns a single task without loading its siblings.
func (s *TaskService) GetTask(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return nil, err
	}
	return s.store.FindTask(ctx, pid, tid)
}

// UpdateTask rewrites title/description of one task in place.
func (s *TaskService) UpdateTask(ctx context.Context, projectID, taskID, title, description string) error {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	if description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	return s.store.SetTaskInfo(ctx, pid, tid, title, description)
}

// RemoveTask pulls the task out of the array. Removing a task that is
// already gone is a no-op reported as zero modified, not an error.
func (s *TaskService) RemoveTask(ctx context.Context, projectID, taskID string) (int64, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return 0, err
	}
	modified, err := s.store.PullTask(ctx, pid, tid)
	if err != nil {
		return 0, err
	}
	return modified, s.invalidate(ctx, projectID)
}

// AddSubtask appends an uncompleted subtask to the task.
func (s *TaskService) AddSubtask(ctx context.Context, projectID, taskID, title string) (*domain.Subtask, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: subtask title is required", domain.ErrValidation)
	}

	now := time.Now()
	sub := &domain.Subtask{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PushSubtask(ctx, pid, tid, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ToggleSubtask flips the completed flag and recomputes the owning
// task's progress. Read-modify-write: the save is guarded by the
// project's version token, so a racing writer surfaces as
// ErrVersionConflict instead of a lost update.
func (s *TaskService) ToggleSubtask(ctx context.Context, projectID, taskID, subtaskID string) (bool, int, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return false, 0, err
	}
	sid, err := parseID(subtaskID)
	if err != nil {
		return false, 0, err
	}

	p, err := s.store.FindByID(ctx, pid)
	if err != nil {
		return false, 0, err
	}
	task := p.TaskByID(tid)
	if task == nil {
		return false, 0, domain.ErrTaskNotFound
	}
	sub := task.SubtaskByID(sid)
	if sub == nil {
		return false, 0, domain.ErrSubtaskNotFound
	}

	now := time.Now()
	sub.Completed = !sub.Completed
	sub.UpdatedAt = now
	task.RecomputeProgress()
	task.UpdatedAt = now

	if err := s.store.Replace(ctx, p); err != nil {
		return false, 0, err
	}
	return sub.Completed, task.Progress, s.invalidate(ctx, projectID)
}

// AddComment appends a comment to the task's discussion.
func (s *TaskService) AddComment(ctx context.Context, projectID, taskID, content, author, authorID string) (*domain.Comment, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: comment content is required", domain.ErrValidation)
	}
	if strings.TrimSpace(author) == "" {
		return nil, fmt.Errorf("%w: comment author is required", domain.ErrValidation)
	}

	comment := &domain.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		Author:    author,
		CreatedAt: time.Now(),
	}
	if authorID != "" {
		aid, err := parseID(authorID)
		if err != nil {
			return nil, err
		}
		comment.AuthorID = &aid
	}
	if err := s.store.PushComment(ctx, pid, tid, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// RemoveComment deletes a comment by id; zero modified means it was
// already gone.
func (s *TaskService) RemoveComment(ctx context.Context, projectID, taskID, commentID string) (int64, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return 0, err
	}
	cid, err := parseID(commentID)
	if err != nil {
		return 0, err
	}
	return s.store.PullComment(ctx, pid, tid, cid)
}

func (s *TaskService) invalidate(ctx context.Context, projectID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		s.log.Warn("stats cache invalidation failed", zap.String("project_id", projectID), zap.Error(err))
	}
	return nil
}

func parseIDs(projectID, taskID string) (primitive.ObjectID, primitive.ObjectID, error) {
	pid, err := parseID(projectID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	tid, err := parseID(taskID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return pid, tid, nil
}
