package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus is the lifecycle status of a whole project.
type ProjectStatus string

const (
	StatusPlanning  ProjectStatus = "Planning"
	StatusActive    ProjectStatus = "Active"
	StatusOnHold    ProjectStatus = "On Hold"
	StatusCompleted ProjectStatus = "Completed"
	StatusCanceled  ProjectStatus = "Canceled"
)

// Stage is the kanban column a task currently occupies.
type Stage string

const (
	StageRequested  Stage = "Requested"
	StageTodo       Stage = "To do"
	StageInProgress Stage = "In Progress"
	StageDone       Stage = "Done"
)

// Stages returns all board columns in display order.
func Stages() []Stage {
	return []Stage{StageRequested, StageTodo, StageInProgress, StageDone}
}

func (s Stage) Valid() bool {
	switch s {
	case StageRequested, StageTodo, StageInProgress, StageDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Normalize maps unknown or missing priorities to Medium.
func (p Priority) Normalize() Priority {
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

// Subtask is owned exclusively by one Task.
type Subtask struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Completed bool               `bson:"completed" json:"completed"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Comment is a discussion entry on a task.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Content   string              `bson:"content" json:"content"`
	Author    string              `bson:"author" json:"author"`
	AuthorID  *primitive.ObjectID `bson:"author_id,omitempty" json:"author_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// Attachment is a file reference attached to a task. Upload itself is
// handled outside this service; only the metadata lives here.
type Attachment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Type       string             `bson:"type" json:"type"`
	URL        string             `bson:"url" json:"url"`
	Size       int64              `bson:"size,omitempty" json:"size,omitempty"`
	UploadedAt time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// TimeEntry records one tracking session on a task. An entry without an
// end time is "open" and marks the task as actively tracked. Duration is
// set only when the entry is closed, in whole minutes.
type TimeEntry struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	StartTime   time.Time           `bson:"start_time" json:"start_time"`
	EndTime     *time.Time          `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Duration    *int                `bson:"duration,omitempty" json:"duration,omitempty"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	UserID      *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
}

// Open reports whether the entry is still being tracked.
func (e *TimeEntry) Open() bool { return e.EndTime == nil }

// Task is a single board card. Order positions it within its stage
// column; Index is the creation sequence number and never changes.
type Task struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title          string               `bson:"title" json:"title"`
	Description    string               `bson:"description" json:"description"`
	Order          int                  `bson:"order" json:"order"`
	Stage          Stage                `bson:"stage" json:"stage"`
	Index          int                  `bson:"index" json:"index"`
	Priority       Priority             `bson:"priority" json:"priority"`
	DueDate        *time.Time           `bson:"due_date,omitempty" json:"due_date,omitempty"`
	AssignedTo     []primitive.ObjectID `bson:"assigned_to" json:"assigned_to"`
	Labels         []string             `bson:"labels" json:"labels"`
	Subtasks       []Subtask            `bson:"subtasks" json:"subtasks"`
	Comments       []Comment            `bson:"comments" json:"comments"`
	Attachments    []Attachment         `bson:"attachments" json:"attachments"`
	TimeEntries    []TimeEntry          `bson:"time_entries" json:"time_entries"`
	TotalTimeSpent int                  `bson:"total_time_spent" json:"total_time_spent"`
	Progress       int                  `bson:"progress" json:"progress"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// Entry returns the time entry with the given id, or nil.
func (t *Task) Entry(id primitive.ObjectID) *TimeEntry {
	for i := range t.TimeEntries {
		if t.TimeEntries[i].ID == id {
			return &t.TimeEntries[i]
		}
	}
	return nil
}

// OpenEntry returns the first open time entry, or nil when the task is idle.
func (t *Task) OpenEntry() *TimeEntry {
	for i := range t.TimeEntries {
		if t.TimeEntries[i].Open() {
			return &t.TimeEntries[i]
		}
	}
	return nil
}

// SubtaskByID returns the subtask with the given id, or nil.
func (t *Task) SubtaskByID(id primitive.ObjectID) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// Project is the aggregate root. It owns every embedded task; tasks never
// exist outside their project document. Version is the optimistic
// concurrency token bumped on every whole-document save, TaskSeq the
// monotonic counter behind task Index assignment.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Status      ProjectStatus        `bson:"status" json:"status"`
	StartDate   time.Time            `bson:"start_date" json:"start_date"`
	EndDate     *time.Time           `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Owner       *primitive.ObjectID  `bson:"owner,omitempty" json:"owner,omitempty"`
	TeamMembers []primitive.ObjectID `bson:"team_members" json:"team_members"`
	Tasks       []Task               `bson:"task" json:"task"`
	Color       string               `bson:"color" json:"color"`
	Tags        []string             `bson:"tags" json:"tags"`
	IsArchived  bool                 `bson:"is_archived" json:"is_archived"`
	TaskSeq     int                  `bson:"task_seq" json:"-"`
	Version     int64                `bson:"version" json:"-"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// TaskByID returns the embedded task with the given id, or nil.
func (p *Project) TaskByID(id primitive.ObjectID) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// DefaultColor is applied to projects created without an explicit color.
const DefaultColor = "#4f46e5"
