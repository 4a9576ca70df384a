package database

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lon-backend/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to postgres, or to sqlite when dsn starts with "sqlite:"
// or "file:".
func Open(dsn string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		dialector = sqlite.Open(sqliteDSN(strings.TrimPrefix(dsn, "sqlite:")))
	case strings.HasPrefix(dsn, "file:"):
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Init connects with retries (the database container may still be
// starting), migrates and seeds the admin account.
func Init(dsn, adminUsername, adminPassword string) error {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		slog.Info("connecting to database", "attempt", i, "max_attempts", maxAttempts)

		DB, err = Open(dsn, logger.Warn)
		if err == nil {
			err = Ping(DB)
		}
		if err == nil {
			slog.Info("connected to database")
			break
		}

		slog.Warn("database connection failed", "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect after %d attempts: %w", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		return err
	}
	return CreateDefaultAdmin(DB, adminUsername, adminPassword)
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.TaskDocument{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping runs SELECT 1 against db.
func Ping(db *gorm.DB) error {
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("unexpected ping result %d", one)
	}
	return nil
}

// CreateDefaultAdmin adds an admin account unless one already exists.
func CreateDefaultAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	slog.Info("created default admin user", "username", username)
	return nil
}

// SeedDemoUsers adds a manager and a member account for local demos.
func SeedDemoUsers(db *gorm.DB) {
	type seedUser struct {
		Username string
		Password string
		Role     models.UserRole
	}

	users := []seedUser{
		{Username: "manager", Password: "Manager123!", Role: models.RoleManager},
		{Username: "member", Password: "Member123!", Role: models.RoleMember},
	}

	for _, u := range users {
		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			slog.Warn("failed to check seed user", "username", u.Username, "error", err)
			continue
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			slog.Warn("failed to hash seed password", "username", u.Username, "error", err)
			continue
		}

		user := models.User{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			slog.Warn("failed to create seed user", "username", u.Username, "error", err)
			continue
		}

		slog.Info("created seed user", "username", u.Username, "role", u.Role)
	}
}

// Close releases the underlying connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
