// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"wind-workers/internal/common/validation"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// New returns an empty registry stamped with the current time.
func New(version string) *ActivityRegistry {
	return &ActivityRegistry{
		Version:     version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities:  []Activity{},
	}
}

// Save writes the registry as indented JSON, creating parent directories.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func (r *ActivityRegistry) Find(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Upsert replaces the activity with the same ID or appends it. Activities stay
// sorted by ID. It reports whether the activity was new.
func (r *ActivityRegistry) Upsert(a Activity) bool {
	defer r.touch()
	if existing, ok := r.Find(a.ID); ok {
		*existing = a
		return false
	}
	r.Activities = append(r.Activities, a)
	sort.Slice(r.Activities, func(i, j int) bool {
		return r.Activities[i].ID < r.Activities[j].ID
	})
	return true
}

func (r *ActivityRegistry) touch() {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}

// Validate checks required fields, duplicate IDs, task type naming, statuses,
// categories and timeouts.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]string)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if err := validation.ValidateTaskTypeNaming(activity.TaskType); err != nil {
			return fmt.Errorf("activity %s: %w", activity.ID, err)
		}
		if other, dup := taskTypes[activity.TaskType]; dup {
			return fmt.Errorf("activities %s and %s share task type %s", other, activity.ID, activity.TaskType)
		}
		taskTypes[activity.TaskType] = activity.ID

		if _, ok := Categories[activity.Category]; !ok {
			return fmt.Errorf("activity %s has unknown category %q", activity.ID, activity.Category)
		}

		switch activity.ImplementationStatus {
		case StatusPlanned, StatusInProgress, StatusCompleted, StatusVerified:
		default:
			return fmt.Errorf("activity %s has unknown status %q", activity.ID, activity.ImplementationStatus)
		}

		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q", activity.ID, activity.Timeout)
			}
		}
	}
	return nil
}

// SchemaToMap converts a worker input schema into the generic form stored in
// the registry.
func SchemaToMap(schema validation.JSONSchema) (map[string]interface{}, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
