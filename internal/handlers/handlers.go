package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"lon-backend/internal/clock"
	"lon-backend/internal/middleware"
	"lon-backend/internal/models"
	"lon-backend/internal/tracking"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Options are the runtime dependencies shared by all handlers.
type Options struct {
	Clock     clock.Clock
	Weights   tracking.Weights
	MediaRoot string
	Logger    *slog.Logger
}

var (
	now       clock.Clock = clock.Real()
	weights               = tracking.DefaultWeights()
	mediaRoot             = "media"
	logger                = slog.Default()
)

// Setup replaces the package defaults. Zero fields keep the current value.
func Setup(opts Options) {
	if opts.Clock != nil {
		now = opts.Clock
	}
	if opts.Weights != nil {
		weights = opts.Weights
	}
	if opts.MediaRoot != "" {
		mediaRoot = opts.MediaRoot
	}
	if opts.Logger != nil {
		logger = opts.Logger
	}
}

func today() time.Time {
	return clock.Today(now)
}

// inputError is a client mistake reported as 400 with its own message.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func badInput(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

// fail maps err to a JSON error response. entity names the record in
// not-found messages.
func fail(c *gin.Context, entity string, err error) {
	var se *tracking.StatusError
	var ie *inputError
	switch {
	case errors.As(err, &se):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid " + se.Field,
			"code":    se.Code(),
			"field":   se.Field,
			"value":   se.Value,
			"allowed": se.Allowed,
		})
	case errors.As(err, &ie):
		c.JSON(http.StatusBadRequest, gin.H{"error": ie.msg})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	default:
		logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric filter. Zero means the filter is absent.
func queryID(c *gin.Context, name string) (uint, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, badInput("%s must be a positive integer", name)
	}
	return uint(id), nil
}

// parseDate reads a YYYY-MM-DD value. Empty input clears the date.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, badInput("%s must be a date in YYYY-MM-DD format", field)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// currentUser is only called behind RequireAuth.
func currentUser(c *gin.Context) models.User {
	u, _ := middleware.CurrentUser(c)
	return u
}
