package domain

import (
	"time"

	projects "github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// Stats is the per-project summary derived from one scan of the task
// collection. Status and priority buckets always carry all four keys so
// their values sum to TotalTasks.
type Stats struct {
	ProjectID            string                    `json:"projectId"`
	ProjectTitle         string                    `json:"projectTitle"`
	TotalTasks           int                       `json:"totalTasks"`
	StatusCounts         map[projects.Stage]int    `json:"statusCounts"`
	PriorityCounts       map[projects.Priority]int `json:"priorityCounts"`
	CompletionPercentage int                       `json:"completionPercentage"`
	OverdueTasks         int                       `json:"overdueTasks"`
}

// Compute scans the project's tasks once. A task is overdue when it has
// a due date in the past and has not reached Done. Unknown or missing
// priorities count as Medium.
func Compute(p *projects.Project, now time.Time) *Stats {
	stats := &Stats{
		ProjectID:    p.ID.Hex(),
		ProjectTitle: p.Title,
		TotalTasks:   len(p.Tasks),
		StatusCounts: map[projects.Stage]int{
			projects.StageRequested:  0,
			projects.StageTodo:       0,
			projects.StageInProgress: 0,
			projects.StageDone:       0,
		},
		PriorityCounts: map[projects.Priority]int{
			projects.PriorityLow:    0,
			projects.PriorityMedium: 0,
			projects.PriorityHigh:   0,
			projects.PriorityUrgent: 0,
		},
	}

	for i := range p.Tasks {
		task := &p.Tasks[i]
		if _, ok := stats.StatusCounts[task.Stage]; ok {
			stats.StatusCounts[task.Stage]++
		}
		stats.PriorityCounts[task.Priority.Normalize()]++

		if task.DueDate != nil && task.DueDate.Before(now) && task.Stage != projects.StageDone {
			stats.OverdueTasks++
		}
	}

	stats.CompletionPercentage = p.Progress()
	return stats
}
