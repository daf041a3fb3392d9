package domain

import (
	"sort"
	"time"

	projects "github.com/pulseboard/go-board-backend/internal/projects/domain"
)

// DailyTotal is the minutes tracked on one UTC calendar date.
type DailyTotal struct {
	Date string `json:"date"`
	Time int    `json:"time"`
}

// UserTotal accumulates one user's minutes and entry count.
type UserTotal struct {
	Total   int `json:"total"`
	Entries int `json:"entries"`
}

// TaskTotal is the per-task slice of the report, for tasks with any
// tracked time inside the range.
type TaskTotal struct {
	TaskID    string         `json:"taskId"`
	TaskTitle string         `json:"taskTitle"`
	TotalTime int            `json:"totalTime"`
	Entries   int            `json:"entries"`
	Stage     projects.Stage `json:"stage"`
}

// TimeReport aggregates closed time entries whose start time falls in
// the requested range.
type TimeReport struct {
	ProjectID      string               `json:"projectId"`
	ProjectTitle   string               `json:"projectTitle"`
	StartDate      time.Time            `json:"startDate"`
	EndDate        time.Time            `json:"endDate"`
	TotalTimeSpent int                  `json:"totalTimeSpent"`
	TotalEntries   int                  `json:"totalEntries"`
	DailyBreakdown []DailyTotal         `json:"dailyBreakdown"`
	TaskBreakdown  []TaskTotal          `json:"taskBreakdown"`
	UserBreakdown  map[string]UserTotal `json:"userBreakdown"`
}

// EndOfDay clamps t to 23:59:59.999 of its calendar day, so a report
// requested "through today" includes entries started any time today.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// BuildTimeReport folds the project's tasks into a report. Open entries
// (no duration yet) are excluded. A project with no tasks, or none in
// range, yields an empty report rather than an error. The daily
// breakdown is ascending by date, the task breakdown descending by
// tracked time.
func BuildTimeReport(p *projects.Project, start, end time.Time) *TimeReport {
	report := &TimeReport{
		ProjectID:      p.ID.Hex(),
		ProjectTitle:   p.Title,
		StartDate:      start,
		EndDate:        end,
		DailyBreakdown: []DailyTotal{},
		TaskBreakdown:  []TaskTotal{},
		UserBreakdown:  map[string]UserTotal{},
	}

	daily := map[string]int{}
	for i := range p.Tasks {
		task := &p.Tasks[i]
		taskTime := 0
		taskEntries := 0

		for j := range task.TimeEntries {
			entry := &task.TimeEntries[j]
			if entry.Duration == nil {
				continue
			}
			if entry.StartTime.Before(start) || entry.StartTime.After(end) {
				continue
			}

			d := *entry.Duration
			report.TotalTimeSpent += d
			report.TotalEntries++
			taskTime += d
			taskEntries++

			date := entry.StartTime.UTC().Format("2006-01-02")
			daily[date] += d

			if entry.UserID != nil {
				key := entry.UserID.Hex()
				u := report.UserBreakdown[key]
				u.Total += d
				u.Entries++
				report.UserBreakdown[key] = u
			}
		}

		if taskTime > 0 {
			report.TaskBreakdown = append(report.TaskBreakdown, TaskTotal{
				TaskID:    task.ID.Hex(),
				TaskTitle: task.Title,
				TotalTime: taskTime,
				Entries:   taskEntries,
				Stage:     task.Stage,
			})
		}
	}

	for date, total := range daily {
		report.DailyBreakdown = append(report.DailyBreakdown, DailyTotal{Date: date, Time: total})
	}
	sort.Slice(report.DailyBreakdown, func(i, j int) bool {
		return report.DailyBreakdown[i].Date < report.DailyBreakdown[j].Date
	})
	sort.SliceStable(report.TaskBreakdown, func(i, j int) bool {
		return report.TaskBreakdown[i].TotalTime > report.TaskBreakdown[j].TotalTime
	})

	return report
}
