package handlers

import (
	"net/http"

	"lon-backend/internal/database"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "database": "disconnected", "error": "database not initialised"})
		return
	}
	if err := database.Ping(database.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "database": "disconnected", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}
