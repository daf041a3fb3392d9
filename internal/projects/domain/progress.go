package domain

import (
	"math"
	"time"
)

// RecomputeProgress derives the task's progress from its subtasks as the
// rounded percentage of completed ones. With no subtasks the stored
// progress is left untouched.
func (t *Task) RecomputeProgress() {
	if len(t.Subtasks) == 0 {
		return
	}
	completed := 0
	for i := range t.Subtasks {
		if t.Subtasks[i].Completed {
			completed++
		}
	}
	t.Progress = roundPercent(completed, len(t.Subtasks))
}

// Progress is the project completion percentage derived from how many
// tasks reached the Done stage. Zero when the project has no tasks.
func (p *Project) Progress() int {
	if len(p.Tasks) == 0 {
		return 0
	}
	done := 0
	for i := range p.Tasks {
		if p.Tasks[i].Stage == StageDone {
			done++
		}
	}
	return roundPercent(done, len(p.Tasks))
}

// DurationMinutes is the tracked span between start and end in whole
// minutes, rounded half-up. Sub-minute sessions round to 0.
func DurationMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
