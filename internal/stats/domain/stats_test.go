package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	projects "github.com/pulseboard/go-board-backend/internal/projects/domain"
)

func TestCompute(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	p := &projects.Project{
		ID:    primitive.NewObjectID(),
		Title: "Sprint 1",
		Tasks: []projects.Task{
			{Stage: projects.StageDone, Priority: projects.PriorityHigh, DueDate: &past},
			{Stage: projects.StageInProgress, Priority: projects.PriorityLow, DueDate: &past},
			{Stage: projects.StageRequested, Priority: ""},
			{Stage: projects.StageTodo, Priority: projects.PriorityUrgent, DueDate: &future},
		},
	}

	stats := Compute(p, now)

	assert.Equal(t, 4, stats.TotalTasks)
	assert.Equal(t, "Sprint 1", stats.ProjectTitle)

	sumStatus := 0
	for _, n := range stats.StatusCounts {
		sumStatus += n
	}
	assert.Equal(t, stats.TotalTasks, sumStatus)

	sumPriority := 0
	for _, n := range stats.PriorityCounts {
		sumPriority += n
	}
	assert.Equal(t, stats.TotalTasks, sumPriority)

	// Missing priority defaults into Medium.
	assert.Equal(t, 1, stats.PriorityCounts[projects.PriorityMedium])

	// One of four tasks done.
	assert.Equal(t, 25, stats.CompletionPercentage)

	// The overdue Done task does not count; the overdue In Progress one does.
	assert.Equal(t, 1, stats.OverdueTasks)
}

func TestComputeEmptyProject(t *testing.T) {
	stats := Compute(&projects.Project{ID: primitive.NewObjectID()}, time.Now())

	assert.Equal(t, 0, stats.TotalTasks)
	assert.Equal(t, 0, stats.CompletionPercentage)
	assert.Equal(t, 0, stats.OverdueTasks)
	assert.Len(t, stats.StatusCounts, 4)
	assert.Len(t, stats.PriorityCounts, 4)
}
