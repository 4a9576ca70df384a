package handlers

import (
	"time"

	"lon-backend/internal/models"
	"lon-backend/internal/tracking"
)

type userView struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     string          `json:"phone"`
	Function  string          `json:"function"`
	Company   string          `json:"company"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"is_active"`
}

func newUserView(u models.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Function:  u.Function,
		Company:   u.Company,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

// userRef is the short form used inside projects and tasks.
type userRef struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func newUserRef(u *models.User) *userRef {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &userRef{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type clientView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newClientView(cl models.Client) clientView {
	return clientView{
		ID:          cl.ID,
		Name:        cl.Name,
		Email:       cl.Email,
		Phone:       cl.Phone,
		Address:     cl.Address,
		CompanyName: cl.CompanyName,
		CreatedAt:   cl.CreatedAt,
		UpdatedAt:   cl.UpdatedAt,
	}
}

type projectView struct {
	ID            uint                 `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Location      string               `json:"location"`
	StartDate     *string              `json:"start_date"`
	EndDate       *string              `json:"end_date"`
	Status        models.ProjectStatus `json:"status"`
	StatusDisplay string               `json:"status_display"`
	Budget        string               `json:"budget"`
	Manager       *userRef             `json:"manager"`
	ManagerName   *string              `json:"manager_name"`
	TeamMembers   []userRef            `json:"team_members"`
	Client        *uint                `json:"client"`
	ClientName    *string              `json:"client_name"`
	ClientDetails *clientView          `json:"client_details"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`

	tracking.ProjectSummary
}

// newProjectView expects Manager, TeamMembers, Client and Tasks preloaded.
// The summary is computed from p.Tasks as loaded.
func newProjectView(p models.Project) projectView {
	v := projectView{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Location:       p.Location,
		StartDate:      formatDate(p.StartDate),
		EndDate:        formatDate(p.EndDate),
		Status:         p.Status,
		StatusDisplay:  p.Status.Label(),
		Budget:         p.Budget.StringFixed(2),
		Manager:        newUserRef(&p.Manager),
		TeamMembers:    make([]userRef, 0, len(p.TeamMembers)),
		Client:         p.ClientID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		ProjectSummary: tracking.Summarize(p.Tasks, today(), weights),
	}
	if v.Manager != nil {
		name := p.Manager.DisplayName()
		v.ManagerName = &name
	}
	for i := range p.TeamMembers {
		v.TeamMembers = append(v.TeamMembers, *newUserRef(&p.TeamMembers[i]))
	}
	if p.Client != nil && p.Client.ID != 0 {
		details := newClientView(*p.Client)
		v.ClientName = &details.Name
		v.ClientDetails = &details
	}
	return v
}

type taskView struct {
	ID              uint                `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	ProjectID       uint                `json:"project_id"`
	ProjectName     string              `json:"project_name"`
	CreatedBy       *userRef            `json:"created_by"`
	AssignedTo      *userRef            `json:"assigned_to"`
	AssignedToName  *string             `json:"assigned_to_name"`
	Status          models.TaskStatus   `json:"status"`
	StatusDisplay   string              `json:"status_display"`
	Priority        models.TaskPriority `json:"priority"`
	PriorityDisplay string              `json:"priority_display"`
	StartDate       *string             `json:"start_date"`
	EndDate         *string             `json:"end_date"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	DurationDays *int    `json:"duration_days"`
	IsOverdue    bool    `json:"is_overdue"`
	DelayDays    int     `json:"delay_days"`
	DelayStatus  *string `json:"delay_status"`
}

// newTaskView expects Project, CreatedBy and AssignedTo preloaded.
func newTaskView(t models.Task) taskView {
	m := tracking.MeasureTask(t, today())
	v := taskView{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		ProjectID:       t.ProjectID,
		ProjectName:     t.Project.Name,
		CreatedBy:       newUserRef(&t.CreatedBy),
		AssignedTo:      newUserRef(t.AssignedTo),
		Status:          t.Status,
		StatusDisplay:   t.Status.Label(),
		Priority:        t.Priority,
		PriorityDisplay: t.Priority.Label(),
		StartDate:       formatDate(t.StartDate),
		EndDate:         formatDate(t.EndDate),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		DurationDays:    m.DurationDays,
		IsOverdue:       m.IsOverdue,
		DelayDays:       m.DelayDays,
		DelayStatus:     m.DelayStatus,
	}
	if v.AssignedTo != nil {
		name := t.AssignedTo.DisplayName()
		v.AssignedToName = &name
	}
	return v
}

type documentView struct {
	ID         uint      `json:"id"`
	TaskID     uint      `json:"task_id"`
	Title      string    `json:"title"`
	File       string    `json:"file"`
	Filename   string    `json:"filename"`
	Extension  string    `json:"extension"`
	UploadedBy uint      `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func newDocumentView(d models.TaskDocument) documentView {
	return documentView{
		ID:         d.ID,
		TaskID:     d.TaskID,
		Title:      d.Title,
		File:       d.File,
		Filename:   d.Filename(),
		Extension:  d.Extension(),
		UploadedBy: d.UploadedByID,
		UploadedAt: d.UploadedAt,
	}
}

type notificationView struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func newNotificationView(n models.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func mapViews[T, V any](items []T, f func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return out
}
