package addtryongarment

import "bodyfit-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"sessionId", "garmentId"},
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:        "string",
				Description: "Try-on session to extend",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"garmentId": {
				Type:        "string",
				Description: "Garment to add",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(128),
			},
		},
		AdditionalProperties: true,
	}
}
