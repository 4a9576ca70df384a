package tracking

import (
	"fmt"
	"slices"

	"lon-backend/internal/models"
)

const CodeInvalidStatus = "INVALID_STATUS"

// StatusError rejects a value outside an entity's allowed set.
type StatusError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *StatusError) Code() string { return CodeInvalidStatus }

// ValidateStatus accepts value if it belongs to allowed. Only membership is
// checked: any move between two allowed values is permitted.
func ValidateStatus[S ~string](field, value string, allowed []S) (S, error) {
	if slices.Contains(allowed, S(value)) {
		return S(value), nil
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", &StatusError{Field: field, Value: value, Allowed: names}
}

func ValidateProjectStatus(value string) (models.ProjectStatus, error) {
	return ValidateStatus("status", value, models.ProjectStatuses)
}

func ValidateTaskStatus(value string) (models.TaskStatus, error) {
	return ValidateStatus("status", value, models.TaskStatuses)
}

func ValidateTaskPriority(value string) (models.TaskPriority, error) {
	return ValidateStatus("priority", value, models.TaskPriorities)
}
