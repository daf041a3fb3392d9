package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// Store is the slice of the persistence gateway time tracking needs.
type Store interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	FindTask(ctx context.Context, projectID, taskID primitive.ObjectID) (*domain.Task, error)
	PushTimeEntry(ctx context.Context, projectID, taskID primitive.ObjectID, entry *domain.TimeEntry) error
	Replace(ctx context.Context, p *domain.Project) error
}

// Invalidator drops cached read models for a project after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, projectID string) error
}

// TimeTrackingService runs the per-task Idle/Tracking state machine on
// top of the task's time-entry collection. A task is Tracking while it
// has exactly one entry without an end time; Start enforces that by
// rejecting a second open entry.
type TimeTrackingService struct {
	store Store
	cache Invalidator
	log   *zap.Logger
	now   func() time.Time
}

// NewTimeTrackingService creates a new time tracking service.
func NewTimeTrackingService(store Store, cache Invalidator, log *zap.Logger) *TimeTrackingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TimeTrackingService{store: store, cache: cache, log: log, now: time.Now}
}

// Start opens a new time entry on the task and moves it to Tracking.
// Fails with ErrTrackingActive when an entry is already open.
func (s *TimeTrackingService) Start(ctx context.Context, projectID, taskID, description, userID string) (*domain.TimeEntry, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry := &domain.TimeEntry{
		ID:          primitive.NewObjectID(),
		StartTime:   now,
		Description: description,
		CreatedAt:   now,
	}
	if userID != "" {
		uid, err := parseID(userID)
		if err != nil {
			return nil, err
		}
		entry.UserID = &uid
	}

	if err := s.store.PushTimeEntry(ctx, pid, tid, entry); err != nil {
		return nil, err
	}
	s.log.Info("time tracking started",
		zap.String("project_id", projectID),
		zap.String("task_id", taskID),
		zap.String("entry_id", entry.ID.Hex()))
	return entry, nil
}

// Stop closes the entry: sets the end time, derives the duration in
// whole minutes and adds it to the task's cached total. Read-modify-
// write guarded by the project version; stopping an already-closed
// entry is ErrEntryClosed so a duration is never added twice.
func (s *TimeTrackingService) Stop(ctx context.Context, projectID, taskID, entryID string) (*domain.TimeEntry, int, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return nil, 0, err
	}
	eid, err := parseID(entryID)
	if err != nil {
		return nil, 0, err
	}

	p, err := s.store.FindByID(ctx, pid)
	if err != nil {
		return nil, 0, err
	}
	task := p.TaskByID(tid)
	if task == nil {
		return nil, 0, domain.ErrTaskNotFound
	}
	entry := task.Entry(eid)
	if entry == nil {
		return nil, 0, domain.ErrTimeEntryNotFound
	}
	if !entry.Open() {
		return nil, 0, domain.ErrEntryClosed
	}

	end := s.now()
	duration := domain.DurationMinutes(entry.StartTime, end)
	entry.EndTime = &end
	entry.Duration = &duration
	task.TotalTimeSpent += duration
	task.UpdatedAt = end

	if err := s.store.Replace(ctx, p); err != nil {
		return nil, 0, err
	}
	s.log.Info("time tracking stopped",
		zap.String("project_id", projectID),
		zap.String("task_id", taskID),
		zap.String("entry_id", entryID),
		zap.Int("duration_min", duration))
	return entry, task.TotalTimeSpent, s.invalidate(ctx, projectID)
}

// Delete removes an entry. A closed entry's duration is subtracted from
// the task total, floored at zero so inconsistent prior state can never
// drive the cache negative.
func (s *TimeTrackingService) Delete(ctx context.Context, projectID, taskID, entryID string) (int, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return 0, err
	}
	eid, err := parseID(entryID)
	if err != nil {
		return 0, err
	}

	p, err := s.store.FindByID(ctx, pid)
	if err != nil {
		return 0, err
	}
	task := p.TaskByID(tid)
	if task == nil {
		return 0, domain.ErrTaskNotFound
	}

	at := -1
	for i := range task.TimeEntries {
		if task.TimeEntries[i].ID == eid {
			at = i
			break
		}
	}
	if at == -1 {
		return 0, domain.ErrTimeEntryNotFound
	}

	if d := task.TimeEntries[at].Duration; d != nil {
		task.TotalTimeSpent -= *d
		if task.TotalTimeSpent < 0 {
			task.TotalTimeSpent = 0
		}
	}
	task.TimeEntries = append(task.TimeEntries[:at], task.TimeEntries[at+1:]...)
	task.UpdatedAt = s.now()

	if err := s.store.Replace(ctx, p); err != nil {
		return 0, err
	}
	return task.TotalTimeSpent, s.invalidate(ctx, projectID)
}

// List returns the task's entries and cached total, read-only.
func (s *TimeTrackingService) List(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	pid, tid, err := parseIDs(projectID, taskID)
	if err != nil {
		return nil, err
	}
	return s.store.FindTask(ctx, pid, tid)
}

func (s *TimeTrackingService) invalidate(ctx context.Context, projectID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, projectID); err != nil {
		s.log.Warn("stats cache invalidation failed", zap.String("project_id", projectID), zap.Error(err))
	}
	return nil
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, raw)
	}
	return id, nil
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
