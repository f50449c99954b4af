// cmd/tools/registry-updater/definitions.go
package main

import (
	"wind-workers/internal/common/errors"
	"wind-workers/internal/common/validation"
	"wind-workers/pkg/registry"

	aq "wind-workers/internal/workers/assistant/answer-question"
	cd "wind-workers/internal/workers/catalog/compare-districts"
	ld "wind-workers/internal/workers/catalog/lookup-district"
	sf "wind-workers/internal/workers/feedback/send-feedback"
	cp "wind-workers/internal/workers/projection/calculate-projection"
	cfc "wind-workers/internal/workers/projection/capacity-factor-curve"
	ew "wind-workers/internal/workers/projection/export-workbook"
)

// definition describes a worker implemented in this repository.
type definition struct {
	id          string
	displayName string
	description string
	category    string
	taskType    string
	timeout     string
	input       validation.JSONSchema
	output      map[string]string // property -> JSON type
	errorCodes  []errors.ErrorCode
	tags        []string
}

func object(required []string, props map[string]validation.Property) validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             required,
		Properties:           props,
		AdditionalProperties: true,
	}
}

func definitions() []definition {
	return []definition{
		{
			id:          "lookup-district",
			displayName: "Lookup District",
			description: "Returns a district profile and its default project parameters",
			category:    "district-catalog",
			taskType:    ld.TaskType,
			timeout:     "5s",
			input: object(nil, map[string]validation.Property{
				"district": {Type: "string", Description: "District name; blank selects the default district"},
			}),
			output:     map[string]string{"district": "object", "defaultParameters": "object", "usedDefault": "boolean"},
			errorCodes: []errors.ErrorCode{errors.ErrCodeDistrictNotFound, errors.ErrCodeInputParsingFailed},
			tags:       []string{"catalog"},
		},
		{
			id:          "list-districts",
			displayName: "List Districts",
			description: "Lists every district with its wind resource figures for comparison",
			category:    "district-catalog",
			taskType:    cd.TaskType,
			timeout:     "5s",
			input: object(nil, map[string]validation.Property{
				"sortBy":     {Type: "string", Enum: []string{"windSpeed", "windPowerDensity"}},
				"descending": {Type: "boolean"},
			}),
			output:     map[string]string{"districts": "array", "districtNames": "array", "defaultDistrict": "string"},
			errorCodes: []errors.ErrorCode{errors.ErrCodeInvalidParameter, errors.ErrCodeInputParsingFailed},
			tags:       []string{"catalog", "comparison"},
		},
		{
			id:          "calculate-projection",
			displayName: "Calculate Projection",
			description: "Computes capacity factor, generation, costs and the yearly financial series for a project",
			category:    "projection",
			taskType:    cp.TaskType,
			timeout:     "10s",
			input:       cp.GetInputSchema(),
			output: map[string]string{
				"district": "object", "parameters": "object", "projection": "object", "summary": "object",
				"costs": "object", "breakEvenYear": "integer", "paybackWithinLifetime": "boolean",
			},
			errorCodes: []errors.ErrorCode{
				errors.ErrCodeDistrictNotFound, errors.ErrCodeInvalidParameter,
				errors.ErrCodeInputParsingFailed, errors.ErrCodeCalculationFailed,
			},
			tags: []string{"engine", "cache"},
		},
		{
			id:          "capacity-factor-curve",
			displayName: "Capacity Factor Curve",
			description: "Samples the capacity factor across a wind speed range",
			category:    "projection",
			taskType:    cfc.TaskType,
			timeout:     "5s",
			input: object(nil, map[string]validation.Property{
				"district":   {Type: "string"},
				"formula":    {Type: "string", Enum: []string{"empirical", "rated-speed"}},
				"turbulence": {Type: "number"},
				"fromSpeed":  {Type: "number"},
				"toSpeed":    {Type: "number"},
				"points":     {Type: "integer"},
			}),
			output:     map[string]string{"formula": "string", "turbulence": "number", "curve": "array"},
			errorCodes: []errors.ErrorCode{errors.ErrCodeDistrictNotFound, errors.ErrCodeInvalidParameter},
			tags:       []string{"engine", "chart"},
		},
		{
			id:          "export-projection-workbook",
			displayName: "Export Projection Workbook",
			description: "Renders a projection as an xlsx workbook",
			category:    "projection",
			taskType:    ew.TaskType,
			timeout:     "15s",
			input: object([]string{"projection"}, map[string]validation.Property{
				"district":   {Type: "string"},
				"parameters": {Type: "object"},
				"projection": {Type: "object"},
			}),
			output: map[string]string{
				"exportId": "string", "fileName": "string", "contentType": "string",
				"sizeBytes": "integer", "workbookBase64": "string",
			},
			errorCodes: []errors.ErrorCode{errors.ErrCodeInvalidParameter, errors.ErrCodeExportFailed},
			tags:       []string{"export", "xlsx"},
		},
		{
			id:          "send-feedback",
			displayName: "Send Feedback",
			description: "Delivers user feedback by email and optionally publishes a notification",
			category:    "feedback",
			taskType:    sf.TaskType,
			timeout:     "10s",
			input:       sf.GetInputSchema(),
			output: map[string]string{
				"feedbackId": "string", "feedbackDelivered": "boolean", "emailMessageId": "string",
				"notificationId": "string", "sentAt": "string",
			},
			errorCodes: []errors.ErrorCode{errors.ErrCodeFeedbackValidationFailed, errors.ErrCodeFeedbackSendFailed},
			tags:       []string{"ses", "sns"},
		},
		{
			id:          "answer-question",
			displayName: "Answer Question",
			description: "Relays a user question with the current projection context to the assistant API",
			category:    "assistant",
			taskType:    aq.TaskType,
			timeout:     "30s",
			input: object([]string{"question"}, map[string]validation.Property{
				"question":   {Type: "string"},
				"district":   {Type: "string"},
				"parameters": {Type: "object"},
				"summary":    {Type: "object"},
			}),
			output: map[string]string{
				"assistantAnswer": "string", "assistantConfidence": "number", "assistantSources": "array",
			},
			errorCodes: []errors.ErrorCode{
				errors.ErrCodeInvalidParameter, errors.ErrCodeAssistantTimeout, errors.ErrCodeAssistantFailed,
			},
			tags: []string{"genai"},
		},
	}
}

// toActivity renders a definition in registry form.
func (d definition) toActivity(version string) (registry.Activity, error) {
	input, err := registry.SchemaToMap(d.input)
	if err != nil {
		return registry.Activity{}, err
	}

	props := make(map[string]interface{}, len(d.output))
	for name, typ := range d.output {
		props[name] = map[string]interface{}{"type": typ}
	}

	codes := make([]string, 0, len(d.errorCodes))
	for _, c := range d.errorCodes {
		codes = append(codes, string(c))
	}

	return registry.Activity{
		ID:                   d.id,
		DisplayName:          d.displayName,
		Description:          d.description,
		Category:             d.category,
		Version:              version,
		TaskType:             d.taskType,
		ImplementationStatus: registry.StatusCompleted,
		InputSchema:          input,
		OutputSchema:         map[string]interface{}{"type": "object", "properties": props},
		ErrorCodes:           codes,
		Timeout:              d.timeout,
		Retries:              3,
		Workflows:            []string{"wind-dashboard"},
		Tags:                 d.tags,
	}, nil
}
