package models

import (
	"strings"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
	RoleViewer  UserRole = "viewer"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:150;not null"`
	Email        string   `gorm:"size:254"`
	FirstName    string   `gorm:"size:150"`
	LastName     string   `gorm:"size:150"`
	Phone        string   `gorm:"size:15"`
	Function     string   `gorm:"size:100"` // job title
	Company      string   `gorm:"size:100"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
	IsActive     bool     `gorm:"not null;default:true"`
}

// DisplayName returns "First Last", falling back to the username.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember, RoleViewer:
		return true
	}
	return false
}
