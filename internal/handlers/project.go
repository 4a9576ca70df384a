package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lon-backend/internal/database"
	"lon-backend/internal/models"
	"lon-backend/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Location    *string          `json:"location"`
	StartDate   *string          `json:"start_date"`
	EndDate     *string          `json:"end_date"`
	Status      *string          `json:"status"`
	Budget      *decimal.Decimal `json:"budget"`
	ClientID    *uint            `json:"client"`
	ManagerID   *uint            `json:"manager_id"`
	TeamMembers *[]uint          `json:"team_members"`
}

func projectQuery(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Manager").
		Preload("TeamMembers").
		Preload("Client").
		Preload("Tasks")
}

func loadProject(id uint) (models.Project, error) {
	var p models.Project
	err := projectQuery(database.DB).First(&p, id).Error
	return p, err
}

//
// LIST
//

func ListProjects(c *gin.Context) {
	dbq := projectQuery(database.DB).Order("created_at desc")

	if s := c.Query("status"); s != "" {
		dbq = dbq.Where("status = ?", s)
	}
	cid, err := queryID(c, "client_id")
	if err != nil {
		fail(c, "", err)
		return
	}
	if cid > 0 {
		dbq = dbq.Where("client_id = ?", cid)
	}

	var projects []models.Project
	if err := dbq.Find(&projects).Error; err != nil {
		fail(c, "project", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(projects, newProjectView))
}

// ManagedProjects lists projects managed by the caller.
func ManagedProjects(c *gin.Context) {
	user := currentUser(c)

	var projects []models.Project
	err := projectQuery(database.DB).
		Where("manager_id = ?", user.ID).
		Order("created_at desc").
		Find(&projects).Error
	if err != nil {
		fail(c, "project", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(projects, newProjectView))
}

func GetProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := loadProject(id)
	if err != nil {
		fail(c, "project", err)
		return
	}
	c.JSON(http.StatusOK, newProjectView(p))
}

// ProjectSummary returns only the computed fields.
func ProjectSummary(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p models.Project
	if err := database.DB.Preload("Tasks").First(&p, id).Error; err != nil {
		fail(c, "project", err)
		return
	}
	c.JSON(http.StatusOK, tracking.Summarize(p.Tasks, today(), weights))
}

//
// CREATE / UPDATE
//

// applyProjectRequest copies the present fields of req onto p and returns
// the team to set, or nil when team_members was not sent.
func applyProjectRequest(tx *gorm.DB, p *models.Project, req projectRequest) ([]models.User, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, badInput("name must not be empty")
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		d, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		p.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			return nil, err
		}
		p.EndDate = d
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return nil, badInput("end_date must not be before start_date")
	}
	if req.Status != nil {
		s, err := tracking.ValidateProjectStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		p.Status = s
	}
	if req.Budget != nil {
		if req.Budget.IsNegative() {
			return nil, badInput("budget must not be negative")
		}
		p.Budget = req.Budget.Round(2)
	}
	if req.ClientID != nil {
		var client models.Client
		if err := tx.First(&client, *req.ClientID).Error; err != nil {
			return nil, lookupError("client", err)
		}
		p.ClientID = &client.ID
	}
	if req.ManagerID != nil {
		var manager models.User
		if err := tx.First(&manager, *req.ManagerID).Error; err != nil {
			return nil, lookupError("manager", err)
		}
		p.ManagerID = manager.ID
	}

	if req.TeamMembers == nil {
		return nil, nil
	}
	team := []models.User{}
	if len(*req.TeamMembers) > 0 {
		if err := tx.Where("id IN ?", *req.TeamMembers).Find(&team).Error; err != nil {
			return nil, err
		}
		if len(team) != len(uniqueIDs(*req.TeamMembers)) {
			return nil, badInput("team_members contains unknown users")
		}
	}
	return team, nil
}

// lookupError turns a missing referenced record into a 400.
func lookupError(field string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return badInput("%s not found", field)
	}
	return err
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}
	if req.Name == nil {
		fail(c, "", badInput("name is required"))
		return
	}

	user := currentUser(c)
	project := models.Project{
		Status:    models.ProjectNew,
		Budget:    decimal.Zero,
		ManagerID: user.ID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		team, err := applyProjectRequest(tx, &project, req)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return err
		}
		if team != nil {
			return tx.Model(&project).Association("TeamMembers").Replace(team)
		}
		return nil
	})
	if err != nil {
		fail(c, "project", err)
		return
	}

	project, err = loadProject(project.ID)
	if err != nil {
		fail(c, "project", err)
		return
	}

	if project.ManagerID != user.ID {
		database.Notify(project.ManagerID, fmt.Sprintf("You are the manager of the new project %q", project.Name))
	}
	for _, m := range project.TeamMembers {
		if m.ID != user.ID && m.ID != project.ManagerID {
			database.Notify(m.ID, fmt.Sprintf("You were added to the project %q", project.Name))
		}
	}

	c.JSON(http.StatusCreated, newProjectView(project))
}

// UpdateProject serves both PUT and PATCH: fields absent from the body are
// left unchanged.
func UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}
		team, err := applyProjectRequest(tx, &project, req)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&project).Error; err != nil {
			return err
		}
		if team != nil {
			return tx.Model(&project).Association("TeamMembers").Replace(team)
		}
		return nil
	})
	if err != nil {
		fail(c, "project", err)
		return
	}

	project, err := loadProject(id)
	if err != nil {
		fail(c, "project", err)
		return
	}
	c.JSON(http.StatusOK, newProjectView(project))
}

//
// STATUS
//

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateProjectStatus sets a new status after checking it belongs to the
// project status set. A rejected value leaves the stored status as is.
func UpdateProjectStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		fail(c, "project", err)
		return
	}

	status, err := tracking.ValidateProjectStatus(req.Status)
	if err != nil {
		fail(c, "project", err)
		return
	}

	if err := database.DB.Model(&project).Update("status", status).Error; err != nil {
		fail(c, "project", err)
		return
	}

	project, err = loadProject(id)
	if err != nil {
		fail(c, "project", err)
		return
	}
	c.JSON(http.StatusOK, newProjectView(project))
}

//
// DELETE
//

// DeleteProject removes the project together with its tasks and their
// documents.
func DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var files []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}
		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", project.ID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		var err error
		if files, err = purgeDocuments(tx, taskIDs); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		fail(c, "project", err)
		return
	}

	removeDocumentFiles(files)
	c.Status(http.StatusNoContent)
}
