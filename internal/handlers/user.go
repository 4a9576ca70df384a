package handlers

import (
	"net/http"
	"strings"

	"lon-backend/internal/database"
	"lon-backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type userRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Function  string `json:"function"`
	Company   string `json:"company"`
	Role      string `json:"role"`
}

// newUser validates req and builds an active user with a hashed password.
func newUser(req userRequest, role models.UserRole) (models.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(req.Password) < 6 {
		return models.User{}, badInput("username must have at least 3 characters and password at least 6")
	}
	if !models.ValidUserRole(role) {
		return models.User{}, badInput("invalid role")
	}

	var count int64
	if err := database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, badInput("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Function:     strings.TrimSpace(req.Function),
		Company:      strings.TrimSpace(req.Company),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}, nil
}

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("username asc").Find(&users).Error; err != nil {
		fail(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(users, newUserView))
}

func GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		fail(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, newUserView(user))
}

// CreateUser is the admin way to add accounts with any role.
func CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleMember
	}

	user, err := newUser(req, role)
	if err != nil {
		fail(c, "user", err)
		return
	}
	if err := database.DB.Create(&user).Error; err != nil {
		fail(c, "user", err)
		return
	}

	logger.Info("user created", "user_id", user.ID, "role", user.Role, "by", currentUser(c).Username)
	c.JSON(http.StatusCreated, newUserView(user))
}
