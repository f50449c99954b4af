package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wind-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteReport() *registry.Activity {
	return &registry.Activity{
		ID:                   "site-report",
		DisplayName:          "Site Report",
		Description:          "builds a site report for a district",
		Category:             "projection",
		TaskType:             "site-report",
		ImplementationStatus: registry.StatusPlanned,
		Timeout:              "1500ms",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"district":   map[string]interface{}{"type": "string", "description": "District name"},
				"capacityMw": map[string]interface{}{"type": "number"},
			},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"report-url": map[string]interface{}{"type": "string"},
				"pages":      map[string]interface{}{"type": "integer"},
			},
		},
		ErrorCodes: []string{"DISTRICT_NOT_FOUND"},
	}
}

func TestGenerateStructFields(t *testing.T) {
	fields := generateStructFields(parseSchema(siteReport().OutputSchema))
	lines := strings.Split(fields, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "\tPages int `json:\"pages\"`", lines[0])
	assert.Equal(t, "\tReportUrl string `json:\"report-url\"`", lines[1])

	assert.Empty(t, parseSchema("not a schema"))
	assert.Equal(t, "interface{}", goTypeFromJSONType(nil))
}

func TestNewWorkerData(t *testing.T) {
	data, err := newWorkerData(siteReport())
	require.NoError(t, err)
	assert.Equal(t, "sitereport", data.PackageName)
	assert.Equal(t, "projection", data.Dir)
	assert.Equal(t, "1500 * time.Millisecond", data.TimeoutLiteral)
	assert.Equal(t, int64(1500), data.TimeoutMillis)

	bad := siteReport()
	bad.Category = "billing"
	_, err = newWorkerData(bad)
	assert.Error(t, err)

	assert.Equal(t, "15 * time.Second", durationLiteral(15*time.Second))
}

func TestGenerate_ProducesParsableGo(t *testing.T) {
	data, err := newWorkerData(siteReport())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), data.Dir, data.ID)
	files, err := generate(data, dir)
	require.NoError(t, err)
	assert.Len(t, files, len(templates))

	fset := token.NewFileSet()
	for _, f := range files {
		if filepath.Ext(f) != ".go" {
			continue
		}
		_, err := parser.ParseFile(fset, f, nil, parser.AllErrors)
		assert.NoError(t, err, f)
	}

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "CapacityMw float64 `json:\"capacityMw\"`")
	assert.Contains(t, string(models), "// District name")

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "DISTRICT_NOT_FOUND")
}
