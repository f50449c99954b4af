// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"wind-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, validateCmd, syncCmd} {
		fs.StringVar(&registryPath, "path", defaultRegistryPath, "Path to registry file")
	}

	// Add command flags
	idAdd := addCmd.String("id", "", "Activity ID (e.g., lookup-district)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Lookup District)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (district-catalog, projection, feedback, assistant)")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., lookup-district)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	// Sync command flags
	syncVersion := syncCmd.String("version", "1.0.0", "Version stamped on synced activities")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, category, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		activity := registry.Activity{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              "10s",
			Retries:              0,
			Workflows:            []string{},
			Tags:                 []string{},
		}
		if err := addActivity(&activity); err != nil {
			fmt.Printf("Error adding activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added activity: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "sync":
		syncCmd.Parse(os.Args[2:])
		added, updated, err := syncRegistry(registryPath, *syncVersion)
		if err != nil {
			fmt.Printf("Error syncing registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Synced registry: %d added, %d updated\n", added, updated)

	case "help":
		fallthrough
	default:
		help()
	}
}

func loadOrCreate(path string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if os.IsNotExist(err) {
			return registry.New("1.0.0"), nil
		}
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func addActivity(activity *registry.Activity) error {
	reg, err := loadOrCreate(registryPath)
	if err != nil {
		return err
	}

	if _, exists := reg.Find(activity.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", activity.ID)
	}
	reg.Upsert(*activity)

	return registry.Save(reg, registryPath)
}

func updateActivity(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}
	activity := *found

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "taskType":
		activity.TaskType = value
	case "timeout":
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.Upsert(activity)
	return registry.Save(reg, registryPath)
}

// syncRegistry writes an activity for every worker in this repository, keeping
// activities that were added by hand.
func syncRegistry(path, version string) (added, updated int, err error) {
	reg, err := loadOrCreate(path)
	if err != nil {
		return 0, 0, err
	}

	for _, def := range definitions() {
		activity, err := def.toActivity(version)
		if err != nil {
			return added, updated, fmt.Errorf("activity %s: %w", def.id, err)
		}
		if reg.Upsert(activity) {
			added++
		} else {
			updated++
		}
	}

	if err := reg.Validate(); err != nil {
		return added, updated, err
	}
	return added, updated, registry.Save(reg, path)
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file
  sync     Regenerate activities for the workers in this repository
  help     Show this help message

Examples:
  registry-updater add -id lookup-district -displayName "Lookup District" -description "Returns a district profile" -category district-catalog -taskType lookup-district
  registry-updater update -id lookup-district -field status -value completed
  registry-updater validate -path configs/activity-registry.json
  registry-updater sync -version 1.0.0

Use 'registry-updater <command> -h' for more information about a command.
`, "\n")
}
