package tracking

import (
	"errors"
	"fmt"
	"time"

	"lon-backend/internal/clock"
	"lon-backend/internal/models"
)

// ErrMissingDate is returned when a computation needs a date the task
// does not have.
var ErrMissingDate = errors.New("task date is not set")

const day = 24 * time.Hour

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(clock.Date(b).Sub(clock.Date(a)) / day)
}

// DurationDays is the inclusive number of days from start to end date.
func DurationDays(t models.Task) (int, error) {
	if t.StartDate == nil || t.EndDate == nil {
		return 0, ErrMissingDate
	}
	return daysBetween(*t.StartDate, *t.EndDate) + 1, nil
}

func IsOverdue(t models.Task, today time.Time) bool {
	if t.Status == models.TaskDone || t.EndDate == nil {
		return false
	}
	return clock.Date(*t.EndDate).Before(clock.Date(today))
}

// DelayDays is 0 unless the task is overdue.
func DelayDays(t models.Task, today time.Time) int {
	if !IsOverdue(t, today) {
		return 0
	}
	return daysBetween(*t.EndDate, today)
}

// DelayStatus describes how far the task is from its deadline. The second
// result is false when there is nothing to say: the task is done or has no
// end date.
func DelayStatus(t models.Task, today time.Time) (string, bool) {
	if t.Status == models.TaskDone || t.EndDate == nil {
		return "", false
	}
	if IsOverdue(t, today) {
		return "Behind by " + plural(DelayDays(t, today)), true
	}
	left := daysBetween(today, *t.EndDate)
	if left == 0 {
		return "Due today", true
	}
	return plural(left) + " remaining", true
}

func plural(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// TaskMetrics bundles the read-time fields of a single task.
type TaskMetrics struct {
	DurationDays *int
	IsOverdue    bool
	DelayDays    int
	DelayStatus  *string
}

func MeasureTask(t models.Task, today time.Time) TaskMetrics {
	m := TaskMetrics{
		IsOverdue: IsOverdue(t, today),
		DelayDays: DelayDays(t, today),
	}
	if d, err := DurationDays(t); err == nil {
		m.DurationDays = &d
	}
	if s, ok := DelayStatus(t, today); ok {
		m.DelayStatus = &s
	}
	return m
}
