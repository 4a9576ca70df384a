package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lon-backend/internal/config"
	"lon-backend/internal/handlers"
	"lon-backend/internal/middleware"
	"lon-backend/internal/models"
	"lon-backend/internal/tracking"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const sessionName = "lon_session"

func NewRouter(cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	weights := tracking.DefaultWeights()
	if cfg.ProgressWeightsFile != "" {
		w, err := tracking.LoadWeights(cfg.ProgressWeightsFile)
		if err != nil {
			return nil, fmt.Errorf("progress weights: %w", err)
		}
		weights = w
		logger.Info("loaded progress weights", "file", cfg.ProgressWeightsFile)
	}

	handlers.Setup(handlers.Options{
		Weights:   weights,
		MediaRoot: cfg.MediaRoot,
		Logger:    logger,
	})

	r := gin.New()
	r.Use(middleware.RecoveryWithLog(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((14 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	api := r.Group("/api")
	api.Use(gin.Logger())
	api.Use(middleware.InjectUser())

	loginLimit := middleware.RateLimiter(rate.Limit(float64(cfg.LoginRatePerMin)/60), cfg.LoginBurst)

	// HEALTHCHECK
	api.GET("/health", handlers.Health)

	// AUTH
	api.POST("/auth/login", loginLimit, handlers.Login)
	api.POST("/auth/register", loginLimit, handlers.Register)

	auth := api.Group("")
	auth.Use(middleware.RequireAuth())

	auth.POST("/auth/logout", handlers.Logout)
	auth.GET("/auth/me", handlers.Me)

	// USERS
	auth.GET("/users", handlers.ListUsers)
	auth.GET("/users/:id", handlers.GetUser)
	auth.POST("/users",
		middleware.RequireRole(models.RoleAdmin),
		handlers.CreateUser,
	)

	// CLIENTS
	clientWriters := middleware.RequireRole(models.RoleAdmin, models.RoleManager)
	auth.GET("/clients", handlers.ListClients)
	auth.POST("/clients", clientWriters, handlers.CreateClient)
	auth.GET("/clients/:id", handlers.GetClient)
	auth.GET("/clients/:id/projects", handlers.ClientProjects)
	auth.PUT("/clients/:id", clientWriters, handlers.UpdateClient)
	auth.PATCH("/clients/:id", clientWriters, handlers.UpdateClient)
	auth.DELETE("/clients/:id", clientWriters, handlers.DeleteClient)

	// PROJECTS
	auth.GET("/projects", handlers.ListProjects)
	auth.POST("/projects", handlers.CreateProject)
	auth.GET("/projects/managed", handlers.ManagedProjects)
	auth.GET("/projects/:id", handlers.GetProject)
	auth.PUT("/projects/:id", handlers.UpdateProject)
	auth.PATCH("/projects/:id", handlers.UpdateProject)
	auth.DELETE("/projects/:id", handlers.DeleteProject)
	auth.PATCH("/projects/:id/update_status", handlers.UpdateProjectStatus)
	auth.GET("/projects/:id/summary", handlers.ProjectSummary)

	// TASKS
	auth.GET("/tasks", handlers.ListTasks)
	auth.POST("/tasks", handlers.CreateTask)
	auth.GET("/tasks/calendar", handlers.CalendarTasks)
	auth.GET("/tasks/project/:project_id", handlers.TasksByProject)
	auth.GET("/tasks/:id", handlers.GetTask)
	auth.PUT("/tasks/:id", handlers.UpdateTask)
	auth.PATCH("/tasks/:id", handlers.UpdateTask)
	auth.DELETE("/tasks/:id", handlers.DeleteTask)
	auth.POST("/tasks/:id/change_status", handlers.ChangeTaskStatus)

	// DOCUMENTS
	auth.GET("/tasks/:id/documents", handlers.ListTaskDocuments)
	auth.POST("/tasks/:id/documents", handlers.UploadTaskDocument)
	auth.GET("/documents/:id/download", handlers.DownloadDocument)
	auth.DELETE("/documents/:id", handlers.DeleteDocument)

	// NOTIFICATIONS
	auth.GET("/notifications", handlers.ListNotifications)
	auth.POST("/notifications/mark-read", handlers.MarkNotificationsRead)

	return r, nil
}
