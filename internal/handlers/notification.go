package handlers

import (
	"net/http"

	"lon-backend/internal/database"
	"lon-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(c *gin.Context) {
	dbq := database.DB.
		Where("user_id = ?", currentUser(c).ID).
		Order("created_at desc").
		Order("id desc")
	if c.Query("unread") == "true" {
		dbq = dbq.Where("is_read = ?", false)
	}

	var notes []models.Notification
	if err := dbq.Find(&notes).Error; err != nil {
		fail(c, "notification", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(notes, newNotificationView))
}

// MarkNotificationsRead flags all of the caller's notifications as read.
func MarkNotificationsRead(c *gin.Context) {
	res := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", currentUser(c).ID, false).
		Update("is_read", true)
	if res.Error != nil {
		fail(c, "notification", res.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
}
