package handlers

import (
	"net/http"
	"strings"

	"lon-backend/internal/database"
	"lon-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type clientRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	CompanyName *string `json:"company_name"`
}

//
// LIST / DETAIL
//

// ListClients returns clients newest first. ?search= matches name, email
// or company name.
func ListClients(c *gin.Context) {
	dbq := database.DB.Order("created_at desc")

	if q := strings.TrimSpace(c.Query("search")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where(
			"(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company_name) LIKE ?)",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := dbq.Find(&clients).Error; err != nil {
		fail(c, "client", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(clients, newClientView))
}

func GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		fail(c, "client", err)
		return
	}
	c.JSON(http.StatusOK, newClientView(client))
}

//
// CREATE / UPDATE
//

func applyClientRequest(cl *models.Client, req clientRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badInput("name must not be empty")
		}
		cl.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return badInput("email is not valid")
		}
		cl.Email = email
	}
	if req.Phone != nil {
		cl.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		cl.Address = strings.TrimSpace(*req.Address)
	}
	if req.CompanyName != nil {
		cl.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	return nil
}

// checkClientName rejects a name already used by another client,
// ignoring case.
func checkClientName(name string, exceptID uint) error {
	var count int64
	if err := database.DB.Model(&models.Client{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, exceptID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return badInput("a client with this name already exists")
	}
	return nil
}

func CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}
	if req.Name == nil {
		fail(c, "", badInput("name is required"))
		return
	}

	var client models.Client
	if err := applyClientRequest(&client, req); err != nil {
		fail(c, "client", err)
		return
	}
	if err := checkClientName(client.Name, 0); err != nil {
		fail(c, "client", err)
		return
	}
	if err := database.DB.Create(&client).Error; err != nil {
		fail(c, "client", err)
		return
	}

	logger.Info("client created", "client_id", client.ID, "by", currentUser(c).Username)
	c.JSON(http.StatusCreated, newClientView(client))
}

func UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		fail(c, "client", err)
		return
	}
	if err := applyClientRequest(&client, req); err != nil {
		fail(c, "client", err)
		return
	}
	if err := checkClientName(client.Name, client.ID); err != nil {
		fail(c, "client", err)
		return
	}
	if err := database.DB.Omit("Projects").Save(&client).Error; err != nil {
		fail(c, "client", err)
		return
	}

	c.JSON(http.StatusOK, newClientView(client))
}

// ClientProjects lists the client's projects, newest first.
func ClientProjects(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		fail(c, "client", err)
		return
	}

	var projects []models.Project
	if err := projectQuery(database.DB).
		Where("client_id = ?", client.ID).
		Order("created_at desc").
		Find(&projects).Error; err != nil {
		fail(c, "project", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(projects, newProjectView))
}

//
// DELETE
//

// DeleteClient detaches the client's projects before removing it.
func DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).
			Where("client_id = ?", client.ID).
			Update("client_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&client).Error
	})
	if err != nil {
		fail(c, "client", err)
		return
	}
	c.Status(http.StatusNoContent)
}
