// Package memory is an in-memory implementation of the persistence
// gateway with the same semantics as the Mongo repository: conditional
// nested-element updates, the open-entry guard, the task sequence
// counter and optimistic version checking. It backs the service and
// handler tests, which run without a mongod.
package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pulseboard/go-board-backend/internal/projects/domain"
)

type Store struct {
	mu       sync.Mutex
	projects map[primitive.ObjectID]*domain.Project
}

func New() *Store {
	return &Store{projects: make(map[primitive.ObjectID]*domain.Project)}
}

func (s *Store) Insert(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.projects {
		if existing.Title == p.Title {
			return domain.ErrDuplicateTitle
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.projects[p.ID] = cloneProject(p)
	return nil
}

func (s *Store) List(_ context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		c := cloneProject(p)
		c.Tasks = nil
		out = append(out, *c)
	}
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (s *Store) FindTask(_ context.Context, projectID, taskID primitive.ObjectID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	task := p.TaskByID(taskID)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	c := cloneTask(task)
	return &c, nil
}

func (s *Store) UpdateProjectInfo(_ context.Context, id primitive.ObjectID, title, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	for _, other := range s.projects {
		if other.ID != id && other.Title == title {
			return domain.ErrDuplicateTitle
		}
	}
	p.Title = title
	p.Description = description
	p.Version++
	p.UpdatedAt = time.Now()
	return nil
}

func (s *Store) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return 0, nil
	}
	delete(s.projects, id)
	return 1, nil
}

func (s *Store) NextTaskIndex(_ context.Context, projectID primitive.ObjectID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return 0, domain.ErrProjectNotFound
	}
	p.TaskSeq++
	return p.TaskSeq, nil
}

func (s *Store) PushTask(_ context.Context, projectID primitive.ObjectID, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Tasks = append(p.Tasks, cloneTask(task))
	return nil
}

func (s *Store) PullTask(_ context.Context, projectID, taskID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return 0, domain.ErrProjectNotFound
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *Store) SetTaskInfo(_ context.Context, projectID, taskID primitive.ObjectID, title, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	task := p.TaskByID(taskID)
	if task == nil {
		return domain.ErrTaskNotFound
	}
	task.Title = title
	task.Description = description
	task.UpdatedAt = time.Now()
	p.Version++
	return nil
}

func (s *Store) SetTaskPlacement(_ context.Context, projectID, taskID primitive.ObjectID, stage domain.Stage, order int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		// Mongo reports an unmatched conditional update as zero
		// modified, not an error.
		return 0, nil
	}
	task := p.TaskByID(taskID)
	if task == nil {
		return 0, nil
	}
	task.Stage = stage
	task.Order = order
	task.UpdatedAt = time.Now()
	// The version bump alone makes a matched write a modification.
	p.Version++
	return 1, nil
}

func (s *Store) PushSubtask(_ context.Context, projectID, taskID primitive.ObjectID, sub *domain.Subtask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.task(projectID, taskID)
	if err != nil {
		return err
	}
	task.Subtasks = append(task.Subtasks, *sub)
	return nil
}

func (s *Store) PushComment(_ context.Context, projectID, taskID primitive.ObjectID, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.task(projectID, taskID)
	if err != nil {
		return err
	}
	task.Comments = append(task.Comments, *comment)
	return nil
}

func (s *Store) PullComment(_ context.Context, projectID, taskID, commentID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.task(projectID, taskID)
	if err != nil {
		return 0, err
	}
	for i := range task.Comments {
		if task.Comments[i].ID == commentID {
			task.Comments = append(task.Comments[:i], task.Comments[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *Store) PushTimeEntry(_ context.Context, projectID, taskID primitive.ObjectID, entry *domain.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.task(projectID, taskID)
	if err != nil {
		return err
	}
	if task.OpenEntry() != nil {
		return domain.ErrTrackingActive
	}
	task.TimeEntries = append(task.TimeEntries, cloneEntry(entry))
	return nil
}

func (s *Store) Replace(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.projects[p.ID]
	if !ok || stored.Version != p.Version {
		return domain.ErrVersionConflict
	}
	p.Version++
	p.UpdatedAt = time.Now()
	s.projects[p.ID] = cloneProject(p)
	return nil
}

// task must be called with the lock held.
func (s *Store) task(projectID, taskID primitive.ObjectID) (*domain.Task, error) {
	p, ok := s.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	task := p.TaskByID(taskID)
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	c.TeamMembers = append([]primitive.ObjectID(nil), p.TeamMembers...)
	c.Tags = append([]string(nil), p.Tags...)
	if p.EndDate != nil {
		end := *p.EndDate
		c.EndDate = &end
	}
	if p.Owner != nil {
		owner := *p.Owner
		c.Owner = &owner
	}
	c.Tasks = make([]domain.Task, len(p.Tasks))
	for i := range p.Tasks {
		c.Tasks[i] = cloneTask(&p.Tasks[i])
	}
	return &c
}

func cloneTask(t *domain.Task) domain.Task {
	c := *t
	c.AssignedTo = append([]primitive.ObjectID(nil), t.AssignedTo...)
	c.Labels = append([]string(nil), t.Labels...)
	c.Subtasks = append([]domain.Subtask(nil), t.Subtasks...)
	c.Comments = append([]domain.Comment(nil), t.Comments...)
	c.Attachments = append([]domain.Attachment(nil), t.Attachments...)
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	c.TimeEntries = make([]domain.TimeEntry, len(t.TimeEntries))
	for i := range t.TimeEntries {
		c.TimeEntries[i] = cloneEntry(&t.TimeEntries[i])
	}
	return c
}

func cloneEntry(e *domain.TimeEntry) domain.TimeEntry {
	c := *e
	if e.EndTime != nil {
		end := *e.EndTime
		c.EndTime = &end
	}
	if e.Duration != nil {
		d := *e.Duration
		c.Duration = &d
	}
	if e.UserID != nil {
		uid := *e.UserID
		c.UserID = &uid
	}
	return c
}
