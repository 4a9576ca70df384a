package tracking

import (
	"errors"
	"testing"
	"time"

	"lon-backend/internal/models"
)

var today = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func date(offset int) *time.Time {
	d := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &d
}

func TestDurationDays_Inclusive(t *testing.T) {
	task := models.Task{StartDate: date(0), EndDate: date(7)}
	got, err := DurationDays(task)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 8 {
		t.Errorf("Expected 8 days, got %d", got)
	}

	task.EndDate = date(14)
	got, _ = DurationDays(task)
	if got != 15 {
		t.Errorf("Expected 15 days, got %d", got)
	}
}

func TestDurationDays_MissingDate(t *testing.T) {
	cases := []models.Task{
		{},
		{StartDate: date(0)},
		{EndDate: date(3)},
	}
	for _, task := range cases {
		if _, err := DurationDays(task); !errors.Is(err, ErrMissingDate) {
			t.Errorf("Expected ErrMissingDate, got %v", err)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{"future end", models.Task{Status: models.TaskTodo, EndDate: date(7)}, false},
		{"ends today", models.Task{Status: models.TaskTodo, EndDate: date(0)}, false},
		{"ended yesterday", models.Task{Status: models.TaskTodo, EndDate: date(-1)}, true},
		{"review past end", models.Task{Status: models.TaskReview, EndDate: date(-10)}, true},
		{"done past end", models.Task{Status: models.TaskDone, EndDate: date(-1)}, false},
		{"no end date", models.Task{Status: models.TaskInProgress}, false},
	}
	for _, tt := range tests {
		if got := IsOverdue(tt.task, today); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestIsOverdue_DoneNeverOverdue(t *testing.T) {
	for offset := -400; offset <= 400; offset += 37 {
		task := models.Task{Status: models.TaskDone, EndDate: date(offset)}
		if IsOverdue(task, today) {
			t.Errorf("Done task with end offset %d reported overdue", offset)
		}
	}
}

func TestDelayDays(t *testing.T) {
	task := models.Task{Status: models.TaskTodo, StartDate: date(0), EndDate: date(7)}
	if got := DelayDays(task, today); got != 0 {
		t.Errorf("Expected no delay, got %d", got)
	}

	task.EndDate = date(-3)
	if got := DelayDays(task, today); got != 3 {
		t.Errorf("Expected 3 days of delay, got %d", got)
	}

	task.EndDate = date(-1)
	if got := DelayDays(task, today); got < 1 {
		t.Errorf("Expected overdue delay to be at least 1, got %d", got)
	}
}

func TestDelayDays_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	task := models.Task{Status: models.TaskTodo, EndDate: &end}
	if got := DelayDays(task, late); got != 1 {
		t.Errorf("Expected 1 day of delay, got %d", got)
	}
}

func TestDelayStatus(t *testing.T) {
	tests := []struct {
		name   string
		task   models.Task
		want   string
		wantOK bool
	}{
		{"done", models.Task{Status: models.TaskDone, EndDate: date(-2)}, "", false},
		{"no end date", models.Task{Status: models.TaskTodo}, "", false},
		{"two days left", models.Task{Status: models.TaskTodo, EndDate: date(2)}, "2 days remaining", true},
		{"one day left", models.Task{Status: models.TaskTodo, EndDate: date(1)}, "1 day remaining", true},
		{"due today", models.Task{Status: models.TaskInProgress, EndDate: date(0)}, "Due today", true},
		{"one day late", models.Task{Status: models.TaskTodo, EndDate: date(-1)}, "Behind by 1 day", true},
		{"two days late", models.Task{Status: models.TaskTodo, EndDate: date(-2)}, "Behind by 2 days", true},
	}
	for _, tt := range tests {
		got, ok := DelayStatus(tt.task, today)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s: expected (%q, %v), got (%q, %v)", tt.name, tt.want, tt.wantOK, got, ok)
		}
	}
}

func TestMeasureTask(t *testing.T) {
	task := models.Task{Status: models.TaskTodo, StartDate: date(-10), EndDate: date(-3)}
	m := MeasureTask(task, today)

	if m.DurationDays == nil || *m.DurationDays != 8 {
		t.Errorf("Expected duration 8, got %v", m.DurationDays)
	}
	if !m.IsOverdue || m.DelayDays != 3 {
		t.Errorf("Expected overdue by 3 days, got overdue=%v delay=%d", m.IsOverdue, m.DelayDays)
	}
	if m.DelayStatus == nil || *m.DelayStatus != "Behind by 3 days" {
		t.Errorf("Unexpected delay status %v", m.DelayStatus)
	}

	empty := MeasureTask(models.Task{Status: models.TaskTodo}, today)
	if empty.DurationDays != nil || empty.DelayStatus != nil {
		t.Errorf("Expected nil duration and delay status for a task without dates")
	}
}
