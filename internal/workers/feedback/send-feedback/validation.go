package sendfeedback

import "wind-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "email", "message"},
		Properties: map[string]validation.Property{
			"name": {
				Type:        "string",
				Description: "Sender name",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(200),
			},
			"email": {
				Type:        "string",
				Description: "Sender email address, used as reply-to",
				MinLength:   validation.IntPtr(3),
				MaxLength:   validation.IntPtr(254),
			},
			"message": {
				Type:        "string",
				Description: "Free-text feedback",
				MinLength:   validation.IntPtr(1),
			},
			"subject": {
				Type:        "string",
				Description: "Optional subject line appended to the configured prefix",
				MaxLength:   validation.IntPtr(200),
			},
			"category": {
				Type:        "string",
				Description: "Feedback category",
				Enum:        []string{"general", "bug", "data", "feature"},
			},
			"district": {
				Type:        "string",
				Description: "District the user was viewing",
			},
		},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())
