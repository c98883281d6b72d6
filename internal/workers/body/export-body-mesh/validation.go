package exportbodymesh

import "bodyfit-workers/internal/common/validation"

// Format is checked by the service so unsupported values surface as their own error code.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"bodyModelId"},
		Properties: map[string]validation.Property{
			"bodyModelId": {
				Type:        "string",
				Description: "Body model to export",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"format": {
				Type:        "string",
				Description: "Export format",
				MaxLength:   validation.IntPtr(16),
			},
		},
		AdditionalProperties: true,
	}
}
