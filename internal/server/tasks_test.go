package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lon-backend/internal/models"

	"github.com/gin-gonic/gin"
)

func taskPath(task map[string]any, suffix string) string {
	return fmt.Sprintf("/api/tasks/%v%s", task["id"], suffix)
}

func TestTaskComputedFields(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})

	late := createTask(t, s, cookies, gin.H{
		"title":      "Late",
		"project_id": p["id"],
		"start_date": "2024-03-10",
		"end_date":   "2024-03-12",
	})
	if late["duration_days"] != float64(3) {
		t.Errorf("Expected duration 3, got %v", late["duration_days"])
	}
	if late["is_overdue"] != true || late["delay_days"] != float64(3) {
		t.Errorf("Expected overdue by 3 days, got %v / %v", late["is_overdue"], late["delay_days"])
	}
	if late["delay_status"] != "Behind by 3 days" {
		t.Errorf("Expected delay status 'Behind by 3 days', got %v", late["delay_status"])
	}
	if late["project_name"] != "Depot" || late["status_display"] != "To do" || late["priority_display"] != "Medium" {
		t.Errorf("Unexpected display fields %v", late)
	}

	soon := createTask(t, s, cookies, gin.H{"title": "Soon", "project_id": p["id"], "end_date": "2024-03-16"})
	if soon["delay_status"] != "1 day remaining" || soon["is_overdue"] != false {
		t.Errorf("Expected '1 day remaining', got %v", soon["delay_status"])
	}
	if soon["duration_days"] != nil {
		t.Errorf("Expected null duration without start date, got %v", soon["duration_days"])
	}

	undated := createTask(t, s, cookies, gin.H{"title": "Undated", "project_id": p["id"]})
	if undated["delay_status"] != nil || undated["delay_days"] != float64(0) {
		t.Errorf("Expected no delay info, got %v / %v", undated["delay_status"], undated["delay_days"])
	}
}

func TestCreateTask_Validation(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})

	w := s.request("POST", "/api/tasks", gin.H{"title": "X", "project_id": 999}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown project, got %d", w.Code)
	}

	w = s.request("POST", "/api/tasks", gin.H{"title": "X", "project_id": p["id"], "priority": "urgent"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for unknown priority, got %d", w.Code)
	}
	if body := decodeObject(t, w); body["field"] != "priority" || body["code"] != "INVALID_STATUS" {
		t.Errorf("Unexpected error body %v", body)
	}

	w = s.request("POST", "/api/tasks", gin.H{"title": "X", "project_id": p["id"], "status": "blocked"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown status, got %d", w.Code)
	}
}

func TestChangeTaskStatus(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})
	task := createTask(t, s, cookies, gin.H{"title": "Late", "project_id": p["id"], "end_date": "2024-03-01"})

	w := s.request("POST", taskPath(task, "/change_status"), gin.H{"status": "archived"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if body := decodeObject(t, w); body["code"] != "INVALID_STATUS" {
		t.Errorf("Expected INVALID_STATUS, got %v", body["code"])
	}
	w = s.request("GET", taskPath(task, ""), nil, cookies)
	if got := decodeObject(t, w)["status"]; got != "todo" {
		t.Errorf("Expected stored status to stay todo, got %v", got)
	}

	w = s.request("POST", taskPath(task, "/change_status"), gin.H{"status": "done"}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	done := decodeObject(t, w)
	if done["status"] != "done" || done["is_overdue"] != false || done["delay_status"] != nil {
		t.Errorf("Expected done task without delay, got %v", done)
	}

	// done -> todo is allowed as well
	w = s.request("POST", taskPath(task, "/change_status"), gin.H{"status": "todo"}, cookies)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	dev := s.createUser("dev", "secret123", models.RoleMember)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})
	task := createTask(t, s, cookies, gin.H{"title": "Survey", "project_id": p["id"]})

	w := s.request("PATCH", taskPath(task, ""), gin.H{"assigned_to_id": dev.ID, "priority": "high"}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decodeObject(t, w)
	if got["assigned_to_name"] != "dev" || got["priority"] != "high" || got["title"] != "Survey" {
		t.Errorf("Unexpected task after update %v", got)
	}

	w = s.request("PUT", taskPath(task, ""), gin.H{"start_date": "2024-03-20", "end_date": "2024-03-19"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for end before start, got %d", w.Code)
	}

	w = s.request("DELETE", taskPath(task, ""), nil, cookies)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if w = s.request("GET", taskPath(task, ""), nil, cookies); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}

func TestListTasks_Filters(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	a := createProject(t, s, cookies, gin.H{"name": "A"})
	b := createProject(t, s, cookies, gin.H{"name": "B"})

	createTask(t, s, cookies, gin.H{"title": "a1", "project_id": a["id"], "start_date": "2024-03-01", "end_date": "2024-03-05"})
	createTask(t, s, cookies, gin.H{"title": "a2", "project_id": a["id"], "start_date": "2024-03-10", "end_date": "2024-03-20"})
	createTask(t, s, cookies, gin.H{"title": "b1", "project_id": b["id"]})

	w := s.request("GET", fmt.Sprintf("/api/tasks?project=%v", a["id"]), nil, cookies)
	if list := decodeList(t, w); len(list) != 2 {
		t.Errorf("Expected 2 tasks in project A, got %d", len(list))
	}

	w = s.request("GET", "/api/tasks?start_date_after=2024-03-05&end_date_before=2024-03-31", nil, cookies)
	if list := decodeList(t, w); len(list) != 1 || list[0]["title"] != "a2" {
		t.Errorf("Expected only a2, got %v", list)
	}

	w = s.request("GET", "/api/tasks?start_date_after=yesterday", nil, cookies)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid date, got %d", w.Code)
	}

	for _, q := range []string{"project=abc", "project=-1", "project=0"} {
		if w = s.request("GET", "/api/tasks?"+q, nil, cookies); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", q, w.Code)
		}
	}
}

func TestTasksByProject_Visibility(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	dev := s.createUser("dev", "secret123", models.RoleMember)
	teammate := s.createUser("mate", "secret123", models.RoleMember)
	mgr := s.login("mgr", "secret123")

	p := createProject(t, s, mgr, gin.H{"name": "Depot", "team_members": []uint{teammate.ID}})
	createTask(t, s, mgr, gin.H{"title": "Mine", "project_id": p["id"], "assigned_to_id": dev.ID})
	createTask(t, s, mgr, gin.H{"title": "Other", "project_id": p["id"]})

	path := fmt.Sprintf("/api/tasks/project/%v", p["id"])
	tests := []struct {
		user string
		want int
	}{
		{"mgr", 2},
		{"mate", 2},
		{"dev", 1},
	}
	for _, tt := range tests {
		w := s.request("GET", path, nil, s.login(tt.user, "secret123"))
		if list := decodeList(t, w); len(list) != tt.want {
			t.Errorf("%s: expected %d tasks, got %d", tt.user, tt.want, len(list))
		}
	}

	if w := s.request("GET", "/api/tasks/project/999", nil, mgr); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown project, got %d", w.Code)
	}
}

func TestCalendarTasks(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})

	createTask(t, s, cookies, gin.H{"title": "march", "project_id": p["id"], "start_date": "2024-03-01", "end_date": "2024-03-05"})
	createTask(t, s, cookies, gin.H{"title": "overlap", "project_id": p["id"], "start_date": "2024-02-20", "end_date": "2024-03-02"})
	createTask(t, s, cookies, gin.H{"title": "april", "project_id": p["id"], "start_date": "2024-04-02", "end_date": "2024-04-05"})
	createTask(t, s, cookies, gin.H{"title": "open", "project_id": p["id"], "start_date": "2024-03-20"})
	createTask(t, s, cookies, gin.H{"title": "february", "project_id": p["id"], "start_date": "2024-02-01", "end_date": "2024-02-10"})

	w := s.request("GET", "/api/tasks/calendar", nil, cookies)
	if list := decodeList(t, w); len(list) != 3 {
		t.Errorf("Expected 3 tasks in the current month, got %v", list)
	}

	w = s.request("GET", "/api/tasks/calendar?start_date=2024-04-01", nil, cookies)
	if list := decodeList(t, w); len(list) != 2 {
		t.Errorf("Expected 2 tasks in April, got %v", list)
	}

	w = s.request("GET", "/api/tasks/calendar?start_date=2024-02-01&end_date=2024-02-25", nil, cookies)
	if list := decodeList(t, w); len(list) != 2 {
		t.Errorf("Expected 2 tasks in February, got %v", list)
	}

	w = s.request("GET", "/api/tasks/calendar?start_date=March", nil, cookies)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid date, got %d", w.Code)
	}

	w = s.request("GET", "/api/tasks/calendar?project_id=depot", nil, cookies)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for non-numeric project_id, got %d", w.Code)
	}
}

func TestTaskDocuments(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})
	task := createTask(t, s, cookies, gin.H{"title": "Survey", "project_id": p["id"]})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Site notes")
	part, _ := mw.CreateFormFile("file", "Notes.TXT")
	_, _ = part.Write([]byte("soil report"))
	_ = mw.Close()

	req, _ := http.NewRequest("POST", taskPath(task, "/documents"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	doc := decodeObject(t, w)
	if doc["title"] != "Site notes" || doc["extension"] != "txt" {
		t.Errorf("Unexpected document %v", doc)
	}
	file, _ := doc["file"].(string)
	if !strings.HasPrefix(file, fmt.Sprintf("task_documents/%v/", task["id"])) {
		t.Errorf("Unexpected stored path %q", file)
	}
	if !strings.HasSuffix(file, doc["filename"].(string)) {
		t.Errorf("Expected filename to be the base of %q, got %v", file, doc["filename"])
	}

	stored := filepath.Join(s.mediaRoot, filepath.FromSlash(file))
	if data, err := os.ReadFile(stored); err != nil || string(data) != "soil report" {
		t.Fatalf("Expected stored file content, got %q (%v)", data, err)
	}

	w = s.request("GET", taskPath(task, "/documents"), nil, cookies)
	if list := decodeList(t, w); len(list) != 1 {
		t.Errorf("Expected 1 document, got %d", len(list))
	}

	w = s.request("DELETE", fmt.Sprintf("/api/documents/%v", doc["id"]), nil, cookies)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("Expected file to be removed, got %v", err)
	}
}

func uploadDocument(t *testing.T, s *testServer, cookies []*http.Cookie, task map[string]any, name, content string) map[string]any {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", name)
	_, _ = part.Write([]byte(content))
	_ = mw.Close()

	req, _ := http.NewRequest("POST", taskPath(task, "/documents"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	return decodeObject(t, w)
}

func TestDeleteTask_RemovesDocuments(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})
	task := createTask(t, s, cookies, gin.H{"title": "Survey", "project_id": p["id"]})
	keep := createTask(t, s, cookies, gin.H{"title": "Keep", "project_id": p["id"]})

	doc := uploadDocument(t, s, cookies, task, "plan.pdf", "floor plan")
	other := uploadDocument(t, s, cookies, keep, "keep.pdf", "other plan")
	stored := filepath.Join(s.mediaRoot, filepath.FromSlash(doc["file"].(string)))

	w := s.request("DELETE", taskPath(task, ""), nil, cookies)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}

	w = s.request("GET", fmt.Sprintf("/api/documents/%v/download", doc["id"]), nil, cookies)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for document of deleted task, got %d", w.Code)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("Expected document file to be removed, got %v", err)
	}

	w = s.request("GET", fmt.Sprintf("/api/documents/%v/download", other["id"]), nil, cookies)
	if w.Code != http.StatusOK || w.Body.String() != "other plan" {
		t.Errorf("Expected other task's document to survive, got %d %q", w.Code, w.Body.String())
	}
}

func TestUploadDocument_MissingFile(t *testing.T) {
	s := setupTestServer(t)
	s.createUser("mgr", "secret123", models.RoleManager)
	cookies := s.login("mgr", "secret123")
	p := createProject(t, s, cookies, gin.H{"name": "Depot"})
	task := createTask(t, s, cookies, gin.H{"title": "Survey", "project_id": p["id"]})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("title", "Nothing")
	_ = mw.Close()

	req, _ := http.NewRequest("POST", taskPath(task, "/documents"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w := s.do(req, cookies); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
