package database

import (
	"log/slog"

	"lon-backend/internal/models"
)

// Notify stores a notification for userID. Failures are logged and never
// fail the calling request.
func Notify(userID uint, message string) {
	if DB == nil || userID == 0 {
		return
	}
	record := models.Notification{
		UserID:  userID,
		Message: message,
	}
	if err := DB.Create(&record).Error; err != nil {
		slog.Warn("failed to store notification", "user_id", userID, "error", err)
	}
}
