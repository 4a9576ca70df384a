package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"lon-backend/internal/clock"
	"lon-backend/internal/database"
	"lon-backend/internal/models"
	"lon-backend/internal/tracking"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taskRequest is shared by create and update. AssignedToID 0 clears the
// assignee.
type taskRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ProjectID    *uint   `json:"project_id"`
	AssignedToID *uint   `json:"assigned_to_id"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
}

func taskQuery(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Project").
		Preload("CreatedBy").
		Preload("AssignedTo")
}

func loadTask(id uint) (models.Task, error) {
	var t models.Task
	err := taskQuery(database.DB).First(&t, id).Error
	return t, err
}

func renderTasks(c *gin.Context, dbq *gorm.DB) {
	var tasks []models.Task
	if err := dbq.Find(&tasks).Error; err != nil {
		fail(c, "task", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(tasks, newTaskView))
}

//
// LIST
//

func ListTasks(c *gin.Context) {
	dbq := taskQuery(database.DB).Order("created_at desc")

	pid, err := queryID(c, "project")
	if err != nil {
		fail(c, "", err)
		return
	}
	if pid > 0 {
		dbq = dbq.Where("project_id = ?", pid)
	}

	after, err := parseDate("start_date_after", c.Query("start_date_after"))
	if err != nil {
		fail(c, "", err)
		return
	}
	if after != nil {
		dbq = dbq.Where("start_date >= ?", *after)
	}

	before, err := parseDate("end_date_before", c.Query("end_date_before"))
	if err != nil {
		fail(c, "", err)
		return
	}
	if before != nil {
		dbq = dbq.Where("end_date <= ?", *before)
	}

	renderTasks(c, dbq)
}

// TasksByProject lists the project's tasks the caller may see. The manager
// and team members see all of them, anyone else only what is assigned to
// them.
func TasksByProject(c *gin.Context) {
	id, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	var project models.Project
	if err := database.DB.Preload("TeamMembers").First(&project, id).Error; err != nil {
		fail(c, "project", err)
		return
	}

	user := currentUser(c)
	dbq := taskQuery(database.DB).
		Where("project_id = ?", project.ID).
		Order("created_at desc")
	if !isProjectMember(project, user.ID) {
		dbq = dbq.Where("assigned_to_id = ?", user.ID)
	}

	renderTasks(c, dbq)
}

func isProjectMember(p models.Project, userID uint) bool {
	if p.ManagerID == userID {
		return true
	}
	for _, m := range p.TeamMembers {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// CalendarTasks returns tasks intersecting [start_date, end_date]. Without
// parameters the window is the current month; a lone start_date extends to
// the end of its month.
func CalendarTasks(c *gin.Context) {
	start, err := parseDate("start_date", c.Query("start_date"))
	if err != nil {
		fail(c, "", err)
		return
	}
	if start == nil {
		t := today()
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = &first
	}

	end, err := parseDate("end_date", c.Query("end_date"))
	if err != nil {
		fail(c, "", err)
		return
	}
	if end == nil {
		last := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		end = &last
	}

	dbq := taskQuery(database.DB).
		Where("start_date <= ?", clock.Date(*end)).
		Where("(end_date >= ? OR end_date IS NULL)", clock.Date(*start)).
		Order("start_date asc")
	pid, err := queryID(c, "project_id")
	if err != nil {
		fail(c, "", err)
		return
	}
	if pid > 0 {
		dbq = dbq.Where("project_id = ?", pid)
	}

	renderTasks(c, dbq)
}

func GetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := loadTask(id)
	if err != nil {
		fail(c, "task", err)
		return
	}
	c.JSON(http.StatusOK, newTaskView(t))
}

//
// CREATE / UPDATE
//

func applyTaskRequest(tx *gorm.DB, t *models.Task, req taskRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return badInput("title must not be empty")
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.ProjectID != nil {
		var project models.Project
		if err := tx.First(&project, *req.ProjectID).Error; err != nil {
			return lookupError("project", err)
		}
		t.ProjectID = project.ID
	}
	if req.AssignedToID != nil {
		if *req.AssignedToID == 0 {
			t.AssignedToID = nil
		} else {
			var assignee models.User
			if err := tx.First(&assignee, *req.AssignedToID).Error; err != nil {
				return lookupError("assigned_to_id", err)
			}
			t.AssignedToID = &assignee.ID
		}
		t.AssignedTo = nil
	}
	if req.Status != nil {
		s, err := tracking.ValidateTaskStatus(*req.Status)
		if err != nil {
			return err
		}
		t.Status = s
	}
	if req.Priority != nil {
		p, err := tracking.ValidateTaskPriority(*req.Priority)
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if req.StartDate != nil {
		d, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			return err
		}
		t.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate("end_date", *req.EndDate)
		if err != nil {
			return err
		}
		t.EndDate = d
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return badInput("end_date must not be before start_date")
	}
	return nil
}

func notifyAssignee(t models.Task, actor uint) {
	if t.AssignedToID == nil || *t.AssignedToID == actor {
		return
	}
	database.Notify(*t.AssignedToID, fmt.Sprintf("You were assigned the task %q in project %q", t.Title, t.Project.Name))
}

func CreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}
	if req.Title == nil {
		fail(c, "", badInput("title is required"))
		return
	}
	if req.ProjectID == nil {
		fail(c, "", badInput("project_id is required"))
		return
	}

	user := currentUser(c)
	task := models.Task{
		CreatedByID: user.ID,
		Status:      models.TaskTodo,
		Priority:    models.PriorityMedium,
	}
	if err := applyTaskRequest(database.DB, &task, req); err != nil {
		fail(c, "task", err)
		return
	}
	if err := database.DB.Omit(clause.Associations).Create(&task).Error; err != nil {
		fail(c, "task", err)
		return
	}

	task, err := loadTask(task.ID)
	if err != nil {
		fail(c, "task", err)
		return
	}
	notifyAssignee(task, user.ID)

	c.JSON(http.StatusCreated, newTaskView(task))
}

// UpdateTask serves both PUT and PATCH. A changed assignee is notified.
func UpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		fail(c, "task", err)
		return
	}
	prevAssignee := task.AssignedToID

	if err := applyTaskRequest(database.DB, &task, req); err != nil {
		fail(c, "task", err)
		return
	}
	if err := database.DB.Omit(clause.Associations).Save(&task).Error; err != nil {
		fail(c, "task", err)
		return
	}

	task, err := loadTask(id)
	if err != nil {
		fail(c, "task", err)
		return
	}
	if task.AssignedToID != nil && (prevAssignee == nil || *prevAssignee != *task.AssignedToID) {
		notifyAssignee(task, currentUser(c).ID)
	}

	c.JSON(http.StatusOK, newTaskView(task))
}

// ChangeTaskStatus moves the task to another status of the task set. Any
// move between allowed values is accepted.
func ChangeTaskStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "", badInput("invalid request body: %v", err))
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		fail(c, "task", err)
		return
	}

	status, err := tracking.ValidateTaskStatus(req.Status)
	if err != nil {
		fail(c, "task", err)
		return
	}
	if err := database.DB.Model(&task).Update("status", status).Error; err != nil {
		fail(c, "task", err)
		return
	}

	task, err = loadTask(id)
	if err != nil {
		fail(c, "task", err)
		return
	}
	c.JSON(http.StatusOK, newTaskView(task))
}

//
// DELETE
//

// DeleteTask removes the task with its documents and their files.
func DeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var files []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}
		var err error
		if files, err = purgeDocuments(tx, []uint{task.ID}); err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		fail(c, "task", err)
		return
	}

	removeDocumentFiles(files)
	c.Status(http.StatusNoContent)
}
