package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeProgress(t *testing.T) {
	t.Run("rounds completed percentage", func(t *testing.T) {
		task := &Task{Subtasks: []Subtask{
			{Completed: true},
			{Completed: false},
			{Completed: false},
		}}
		task.RecomputeProgress()
		assert.Equal(t, 33, task.Progress)

		task.Subtasks[1].Completed = true
		task.RecomputeProgress()
		assert.Equal(t, 67, task.Progress)
	})

	t.Run("half completed is 50", func(t *testing.T) {
		task := &Task{Subtasks: []Subtask{{Completed: true}, {}}}
		task.RecomputeProgress()
		assert.Equal(t, 50, task.Progress)
	})

	t.Run("no subtasks leaves progress untouched", func(t *testing.T) {
		task := &Task{Progress: 42}
		task.RecomputeProgress()
		assert.Equal(t, 42, task.Progress)
	})

	t.Run("all completed is 100", func(t *testing.T) {
		task := &Task{Subtasks: []Subtask{{Completed: true}, {Completed: true}}}
		task.RecomputeProgress()
		assert.Equal(t, 100, task.Progress)
	})
}

func TestProjectProgress(t *testing.T) {
	t.Run("empty project is 0", func(t *testing.T) {
		p := &Project{}
		assert.Equal(t, 0, p.Progress())
	})

	t.Run("derived from done tasks", func(t *testing.T) {
		p := &Project{Tasks: []Task{
			{Stage: StageDone},
			{Stage: StageInProgress},
			{Stage: StageRequested},
		}}
		assert.Equal(t, 33, p.Progress())
	})
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"sub-minute rounds to zero", 20 * time.Second, 0},
		{"half minute rounds up", 30 * time.Second, 1},
		{"ninety seconds rounds to two", 90 * time.Second, 2},
		{"exact hour", time.Hour, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationMinutes(start, start.Add(tt.elapsed)))
		})
	}
}

func TestPriorityNormalize(t *testing.T) {
	assert.Equal(t, PriorityHigh, PriorityHigh.Normalize())
	assert.Equal(t, PriorityMedium, Priority("").Normalize())
	assert.Equal(t, PriorityMedium, Priority("Critical").Normalize())
}

func TestStageValid(t *testing.T) {
	for _, s := range Stages() {
		assert.True(t, s.Valid())
	}
	assert.False(t, Stage("Backlog").Valid())
}
