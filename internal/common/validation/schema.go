package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern      = regexp.MustCompile(`^(https?|ftp)://[^\s/$.?#].[^\s]*$`)
	taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	MinItems    *int                `json:"minItems,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator is a compiled schema. It is safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

// Compile turns a JSONSchema into a reusable Validator.
func Compile(schema JSONSchema) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// MustCompile is like Compile but panics on an invalid schema.
func MustCompile(schema JSONSchema) *Validator {
	v, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks a decoded JSON document (usually job variables).
func (v *Validator) Validate(document interface{}) *ValidationResult {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, toValidationError(desc))
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errs,
	}
}

// ValidateInput validates input against JSON schema with detailed errors
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	v, err := Compile(schema)
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(schema)", Message: err.Error(), Code: "INVALID_SCHEMA"}},
		}
	}
	return v.Validate(input)
}

func toValidationError(desc gojsonschema.ResultError) ValidationError {
	field := desc.Field()
	// required and additional-property errors are reported against the parent object
	if prop, ok := desc.Details()["property"].(string); ok && prop != "" &&
		field != prop && !strings.HasSuffix(field, "."+prop) {
		if field == "(root)" {
			field = prop
		} else {
			field = field + "." + prop
		}
	}

	return ValidationError{
		Field:   field,
		Message: desc.Description(),
		Code:    errorCode(desc.Type()),
	}
}

func errorCode(resultType string) string {
	switch resultType {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "additional_property_not_allowed":
		return "EXTRA_FIELD"
	case "invalid_type":
		return "INVALID_TYPE"
	case "number_gte", "number_gt":
		return "MINIMUM_VIOLATION"
	case "number_lte", "number_lt":
		return "MAXIMUM_VIOLATION"
	case "string_gte":
		return "MIN_LENGTH_VIOLATION"
	case "string_lte":
		return "MAX_LENGTH_VIOLATION"
	case "pattern":
		return "PATTERN_MISMATCH"
	case "enum":
		return "INVALID_ENUM_VALUE"
	case "array_min_items":
		return "MIN_ITEMS_VIOLATION"
	default:
		return strings.ToUpper(resultType)
	}
}

// ValidateTaskTypeNaming checks a task type is lower kebab-case, e.g. calculate-projection.
func ValidateTaskTypeNaming(taskType string) error {
	if !taskTypePattern.MatchString(taskType) {
		return fmt.Errorf("task type must be lower kebab-case (e.g. calculate-projection), got %q", taskType)
	}
	return nil
}

// GetSchemaFromJSON parses JSON schema from string
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// FirstField returns the field of the first error, or "" when valid.
func (vr *ValidationResult) FirstField() string {
	if len(vr.Errors) == 0 {
		return ""
	}
	return vr.Errors[0].Field
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}

func FloatPtr(f float64) *float64 { return &f }

func IntPtr(i int) *int { return &i }

func StringPtr(s string) *string { return &s }
