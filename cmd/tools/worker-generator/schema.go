// cmd/tools/worker-generator/schema.go
package main

import (
	"fmt"
	"sort"
	"strings"
)

// parseSchema extracts properties from a JSON schema object
func parseSchema(schemaObj interface{}) map[string]interface{} {
	if schemaMap, ok := schemaObj.(map[string]interface{}); ok {
		if props, exists := schemaMap["properties"]; exists {
			if properties, ok := props.(map[string]interface{}); ok {
				return properties
			}
		}
	}
	return map[string]interface{}{}
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}) string {
	if jt, ok := jsonType.(string); ok {
		switch jt {
		case "string":
			return "string"
		case "number":
			return "float64"
		case "integer":
			return "int"
		case "boolean":
			return "bool"
		case "object":
			return "map[string]interface{}"
		case "array":
			return "[]interface{}"
		}
	}
	return "interface{}"
}

// generateStructFields renders struct fields for schema properties in name order.
func generateStructFields(properties map[string]interface{}) string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []string
	for _, prop := range names {
		propDetails, ok := properties[prop].(map[string]interface{})
		if !ok {
			continue
		}
		field := fmt.Sprintf("\t%s %s `json:\"%s\"`", exportedName(prop), goTypeFromJSONType(propDetails["type"]), prop)
		if d, ok := propDetails["description"].(string); ok && d != "" {
			field += " // " + d
		}
		fields = append(fields, field)
	}
	return strings.Join(fields, "\n")
}

// exportedName turns a camelCase or kebab-case property into an exported Go name.
func exportedName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		parts[i] = upperFirst(p)
	}
	return strings.Join(parts, "")
}

// upperFirst makes the first character uppercase
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// packageName derives the Go package name for an activity ID.
func packageName(id string) string {
	return strings.ReplaceAll(id, "-", "")
}
