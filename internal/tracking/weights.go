package tracking

import (
	"fmt"
	"os"

	"lon-backend/internal/models"

	"gopkg.in/yaml.v3"
)

// Weights maps each task status to the share of the task counted as
// complete when computing project progress.
type Weights map[models.TaskStatus]float64

// DefaultWeights gives review the same partial credit as in_progress.
func DefaultWeights() Weights {
	return Weights{
		models.TaskTodo:       0.0,
		models.TaskInProgress: 0.5,
		models.TaskReview:     0.5,
		models.TaskDone:       1.0,
	}
}

// Of returns the weight for s. Unknown statuses count as 0.
func (w Weights) Of(s models.TaskStatus) float64 {
	return w[s]
}

// LoadWeights reads a YAML mapping of status to weight, e.g.
//
//	review: 0.75
//
// Entries override the defaults; statuses not listed keep their default.
func LoadWeights(path string) (Weights, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}

	var overrides map[string]float64
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse weights file: %w", err)
	}

	w := DefaultWeights()
	for name, v := range overrides {
		status, err := ValidateTaskStatus(name)
		if err != nil {
			return nil, fmt.Errorf("weights file: unknown status %q", name)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("weights file: weight for %q must be between 0 and 1, got %v", name, v)
		}
		w[status] = v
	}
	return w, nil
}
