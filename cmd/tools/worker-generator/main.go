// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"wind-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	ID                   string
	Name                 string
	PackageName          string
	Dir                  string
	TaskType             string
	InputSchema          map[string]interface{}
	OutputSchema         map[string]interface{}
	ErrorCodes           []string
	Description          string
	Category             string
	Timeout              string
	TimeoutLiteral       string
	TimeoutMillis        int64
	Retries              int
	ImplementationStatus string
}

var templates = map[string]string{
	"handler.go":      handlerTemplate,
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"handler_test.go": testTemplate,
	"README.md":       readmeTemplate,
}

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., lookup-district)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite an existing worker directory")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator --activity <id> --output <dir> [--registry <path>]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/worker-generator --activity site-report")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	found, ok := reg.Find(*activity)
	if !ok {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	data, err := newWorkerData(found)
	if err != nil {
		fmt.Printf("Error preparing activity %s: %v\n", *activity, err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, data.Dir, data.ID)
	if _, err := os.Stat(workerDir); err == nil && !*force {
		fmt.Printf("Worker directory %s already exists, use --force to overwrite\n", workerDir)
		os.Exit(1)
	}

	files, err := generate(data, workerDir)
	if err != nil {
		fmt.Printf("Error generating worker: %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("Generated %s\n", f)
	}

	fmt.Printf("\nWorker scaffold generated at: %s\n", workerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement Execute in handler.go\n")
	fmt.Printf("  2. Write tests in handler_test.go\n")
	fmt.Printf("  3. Register the worker in cmd/worker-manager/main.go\n")
	fmt.Printf("  4. Add configuration to configs/config.yaml\n")
}

func newWorkerData(a *registry.Activity) (WorkerData, error) {
	dir, ok := registry.Categories[a.Category]
	if !ok {
		return WorkerData{}, fmt.Errorf("unknown category %q", a.Category)
	}

	timeout := 10 * time.Second
	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil {
			return WorkerData{}, fmt.Errorf("invalid timeout %q: %w", a.Timeout, err)
		}
		timeout = d
	}

	return WorkerData{
		ID:                   a.ID,
		Name:                 a.DisplayName,
		PackageName:          packageName(a.ID),
		Dir:                  dir,
		TaskType:             a.TaskType,
		InputSchema:          a.InputSchema,
		OutputSchema:         a.OutputSchema,
		ErrorCodes:           a.ErrorCodes,
		Description:          a.Description,
		Category:             a.Category,
		Timeout:              timeout.String(),
		TimeoutLiteral:       durationLiteral(timeout),
		TimeoutMillis:        timeout.Milliseconds(),
		Retries:              a.Retries,
		ImplementationStatus: a.ImplementationStatus,
	}, nil
}

// durationLiteral renders d as Go source, e.g. "15 * time.Second".
func durationLiteral(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}

func generate(data WorkerData, workerDir string) ([]string, error) {
	if err := os.MkdirAll(workerDir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	funcMap := template.FuncMap{
		"parseSchema":          parseSchema,
		"goTypeFromJSONType":   goTypeFromJSONType,
		"generateStructFields": generateStructFields,
	}

	var written []string
	for filename, tmplStr := range templates {
		tmpl, err := template.New(filename).Funcs(funcMap).Parse(tmplStr)
		if err != nil {
			return written, fmt.Errorf("parse template %s: %w", filename, err)
		}

		filePath := filepath.Join(workerDir, filename)
		file, err := os.Create(filePath)
		if err != nil {
			return written, fmt.Errorf("create %s: %w", filePath, err)
		}
		err = tmpl.Execute(file, data)
		file.Close()
		if err != nil {
			return written, fmt.Errorf("render %s: %w", filename, err)
		}
		written = append(written, filePath)
	}
	return written, nil
}
