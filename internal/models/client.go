package models

import "gorm.io/gorm"

type Client struct {
	gorm.Model
	Name        string `gorm:"size:255;not null"`
	Email       string `gorm:"size:254"`
	Phone       string `gorm:"size:50"`
	Address     string `gorm:"type:text"`
	CompanyName string `gorm:"size:255"`

	Projects []Project
}
