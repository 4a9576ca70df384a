package models

import "time"

type Notification struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint `gorm:"not null;index"`
	User   User

	Message string `gorm:"type:text;not null"`
	IsRead  bool   `gorm:"not null;default:false"`
}
