package tracking

import (
	"math"
	"time"

	"lon-backend/internal/models"
)

// TaskStatistics counts a project's tasks per status.
type TaskStatistics struct {
	Todo           int     `json:"todo"`
	InProgress     int     `json:"in_progress"`
	Review         int     `json:"review"`
	Done           int     `json:"done"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completion_rate"`
}

// ProjectSummary holds the computed fields of a project. It is never
// persisted.
type ProjectSummary struct {
	TaskStatistics TaskStatistics `json:"task_statistics"`
	Progress       float64        `json:"progress"`
	IsDelayed      bool           `json:"is_delayed"`
}

func Statistics(tasks []models.Task) TaskStatistics {
	var s TaskStatistics
	for _, t := range tasks {
		switch t.Status {
		case models.TaskTodo:
			s.Todo++
		case models.TaskInProgress:
			s.InProgress++
		case models.TaskReview:
			s.Review++
		case models.TaskDone:
			s.Done++
		}
		s.Total++
	}
	s.CompletionRate = percent(float64(s.Done), s.Total)
	return s
}

// Progress is the weighted completion percentage of tasks.
func Progress(tasks []models.Task, w Weights) float64 {
	var sum float64
	for _, t := range tasks {
		sum += w.Of(t.Status)
	}
	return percent(sum, len(tasks))
}

// IsDelayed reports whether any task is overdue. Done tasks are never
// overdue.
func IsDelayed(tasks []models.Task, today time.Time) bool {
	for _, t := range tasks {
		if IsOverdue(t, today) {
			return true
		}
	}
	return false
}

// Summarize computes all project fields from one snapshot of its tasks.
func Summarize(tasks []models.Task, today time.Time, w Weights) ProjectSummary {
	return ProjectSummary{
		TaskStatistics: Statistics(tasks),
		Progress:       Progress(tasks, w),
		IsDelayed:      IsDelayed(tasks, today),
	}
}

// percent returns part/total*100 rounded to two decimals, 0 for an empty set.
func percent(part float64, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(part/float64(total)*100*100) / 100
}
