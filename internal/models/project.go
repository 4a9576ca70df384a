package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectNew        ProjectStatus = "NEW"
	ProjectSigned     ProjectStatus = "SIGNED"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectPaid       ProjectStatus = "PAID"
	ProjectLost       ProjectStatus = "LOST"
)

// ProjectStatuses is the fixed choice set, in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectNew,
	ProjectSigned,
	ProjectInProgress,
	ProjectPaid,
	ProjectLost,
}

var projectStatusLabels = map[ProjectStatus]string{
	ProjectNew:        "New",
	ProjectSigned:     "Signed",
	ProjectInProgress: "In progress",
	ProjectPaid:       "Paid",
	ProjectLost:       "Lost",
}

func (s ProjectStatus) Label() string {
	if l, ok := projectStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

type Project struct {
	gorm.Model
	Name        string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Location    string `gorm:"size:200"`

	StartDate *time.Time `gorm:"type:date"`
	EndDate   *time.Time `gorm:"type:date"`

	Status ProjectStatus   `gorm:"type:varchar(20);not null;default:'NEW'"`
	Budget decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	ManagerID uint
	Manager   User
	// team members, manager not included
	TeamMembers []User `gorm:"many2many:project_members;"`

	ClientID *uint
	Client   *Client

	Tasks []Task
}
