package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string
type TaskPriority string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"

	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskReview, TaskDone}

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

var taskStatusLabels = map[TaskStatus]string{
	TaskTodo:       "To do",
	TaskInProgress: "In progress",
	TaskReview:     "Review",
	TaskDone:       "Done",
}

var priorityLabels = map[TaskPriority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

func (s TaskStatus) Label() string {
	if l, ok := taskStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (p TaskPriority) Label() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return string(p)
}

type Task struct {
	gorm.Model
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`

	ProjectID uint `gorm:"not null;index"`
	Project   Project

	CreatedByID  uint
	CreatedBy    User
	AssignedToID *uint
	AssignedTo   *User

	Status   TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index"`
	Priority TaskPriority `gorm:"type:varchar(10);not null;default:'medium'"`

	StartDate *time.Time `gorm:"type:date"`
	EndDate   *time.Time `gorm:"type:date"`

	Documents []TaskDocument
}
