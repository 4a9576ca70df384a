package models

import (
	"path"
	"strings"
	"time"
)

// TaskDocument is a file attached to a task. File holds the path relative
// to the media root.
type TaskDocument struct {
	ID     uint `gorm:"primaryKey"`
	TaskID uint `gorm:"not null;index"`
	Task   Task

	Title string `gorm:"size:200;not null"`
	File  string `gorm:"size:255;not null"`

	UploadedByID uint
	UploadedBy   User
	UploadedAt   time.Time `gorm:"autoCreateTime"`
}

func (d TaskDocument) Filename() string {
	return path.Base(strings.ReplaceAll(d.File, "\\", "/"))
}

// Extension is lower-case and without the leading dot ("txt").
func (d TaskDocument) Extension() string {
	ext := path.Ext(d.Filename())
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
