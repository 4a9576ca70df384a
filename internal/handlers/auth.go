package handlers

import (
	"net/http"
	"strings"

	"lon-backend/internal/database"
	"lon-backend/internal/middleware"
	"lon-backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a member account. Other roles are granted through
// CreateUser.
func Register(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	user, err := newUser(req, models.RoleMember)
	if err != nil {
		fail(c, "user", err)
		return
	}
	if err := database.DB.Create(&user).Error; err != nil {
		fail(c, "user", err)
		return
	}

	logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, newUserView(user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
		return
	}

	if err := middleware.Login(c, user); err != nil {
		fail(c, "", err)
		return
	}

	logger.Info("user logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, newUserView(user))
}

func Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		fail(c, "", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func Me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserView(currentUser(c)))
}
