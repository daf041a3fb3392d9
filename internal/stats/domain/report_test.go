package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	projects "github.com/pulseboard/go-board-backend/internal/projects/domain"
)

func closedEntry(start time.Time, minutes int, user *primitive.ObjectID) projects.TimeEntry {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return projects.TimeEntry{
		ID:        primitive.NewObjectID(),
		StartTime: start,
		EndTime:   &end,
		Duration:  &minutes,
		UserID:    user,
	}
}

func TestBuildTimeReport(t *testing.T) {
	day1 := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	alice := primitive.NewObjectID()

	p := &projects.Project{
		ID:    primitive.NewObjectID(),
		Title: "Sprint 1",
		Tasks: []projects.Task{
			{
				ID:    primitive.NewObjectID(),
				Title: "small",
				Stage: projects.StageInProgress,
				TimeEntries: []projects.TimeEntry{
					closedEntry(day1, 30, &alice),
					{ID: primitive.NewObjectID(), StartTime: day2}, // open, excluded
				},
			},
			{
				ID:    primitive.NewObjectID(),
				Title: "big",
				Stage: projects.StageDone,
				TimeEntries: []projects.TimeEntry{
					closedEntry(day1, 60, nil),
					closedEntry(day2, 45, &alice),
					closedEntry(outside, 500, nil), // before range, excluded
				},
			},
			{ID: primitive.NewObjectID(), Title: "untouched"},
		},
	}

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := EndOfDay(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
	report := BuildTimeReport(p, start, end)

	assert.Equal(t, 135, report.TotalTimeSpent)
	assert.Equal(t, 3, report.TotalEntries)

	require.Len(t, report.DailyBreakdown, 2)
	assert.Equal(t, DailyTotal{Date: "2026-04-01", Time: 90}, report.DailyBreakdown[0])
	assert.Equal(t, DailyTotal{Date: "2026-04-02", Time: 45}, report.DailyBreakdown[1])

	// Descending by tracked time; the untouched task is absent.
	require.Len(t, report.TaskBreakdown, 2)
	assert.Equal(t, "big", report.TaskBreakdown[0].TaskTitle)
	assert.Equal(t, 105, report.TaskBreakdown[0].TotalTime)
	assert.Equal(t, 2, report.TaskBreakdown[0].Entries)
	assert.Equal(t, "small", report.TaskBreakdown[1].TaskTitle)

	require.Contains(t, report.UserBreakdown, alice.Hex())
	assert.Equal(t, UserTotal{Total: 75, Entries: 2}, report.UserBreakdown[alice.Hex()])
}

func TestBuildTimeReportEmptyProject(t *testing.T) {
	p := &projects.Project{ID: primitive.NewObjectID(), Title: "empty"}
	report := BuildTimeReport(p, time.Now().AddDate(0, 0, -30), time.Now())

	assert.Equal(t, 0, report.TotalTimeSpent)
	assert.Equal(t, 0, report.TotalEntries)
	assert.Empty(t, report.DailyBreakdown)
	assert.Empty(t, report.TaskBreakdown)
	assert.Empty(t, report.UserBreakdown)
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	out := EndOfDay(in)

	assert.Equal(t, 23, out.Hour())
	assert.Equal(t, 59, out.Minute())
	assert.Equal(t, 59, out.Second())
	assert.Equal(t, in.Day(), out.Day())

	// An entry started late on the end date stays inside the range.
	lateEntry := time.Date(2026, 4, 2, 23, 45, 0, 0, time.UTC)
	assert.False(t, lateEntry.After(out))
}
