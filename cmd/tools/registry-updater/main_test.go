package main

import (
	"path/filepath"
	"testing"

	"wind-workers/internal/common/validation"
	"wind-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitions_TaskTypes(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range definitions() {
		assert.NoError(t, validation.ValidateTaskTypeNaming(def.taskType), def.id)
		assert.False(t, seen[def.taskType], "duplicate task type %s", def.taskType)
		seen[def.taskType] = true
	}
	assert.Len(t, seen, 7)
}

func TestSyncRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")

	added, updated, err := syncRegistry(path, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 7, added)
	assert.Equal(t, 0, updated)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	projection, ok := reg.Find("calculate-projection")
	require.True(t, ok)
	props := projection.InputSchema["properties"].(map[string]interface{})
	assert.Contains(t, props, "capacityMw")
	assert.Contains(t, projection.ErrorCodes, "CALCULATION_FAILED")

	added, updated, err = syncRegistry(path, "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 7, updated)
}

func TestAddAndUpdateActivity(t *testing.T) {
	registryPath = filepath.Join(t.TempDir(), "activity-registry.json")
	t.Cleanup(func() { registryPath = defaultRegistryPath })

	a := registry.Activity{
		ID:                   "site-report",
		DisplayName:          "Site Report",
		Category:             "projection",
		TaskType:             "site-report",
		ImplementationStatus: registry.StatusPlanned,
	}
	require.NoError(t, addActivity(&a))
	assert.Error(t, addActivity(&a))

	require.NoError(t, updateActivity("site-report", "status", registry.StatusInProgress))
	require.NoError(t, updateActivity("site-report", "retries", "2"))
	assert.Error(t, updateActivity("site-report", "retries", "two"))
	assert.Error(t, updateActivity("site-report", "colour", "red"))
	assert.Error(t, updateActivity("missing", "status", "planned"))

	reg, err := registry.LoadRegistry(registryPath)
	require.NoError(t, err)
	got, ok := reg.Find("site-report")
	require.True(t, ok)
	assert.Equal(t, registry.StatusInProgress, got.ImplementationStatus)
	assert.Equal(t, 2, got.Retries)
}
