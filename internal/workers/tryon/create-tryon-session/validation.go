package createtryonsession

import "bodyfit-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"bodyModelId", "garmentIds"},
		Properties: map[string]validation.Property{
			"bodyModelId": {
				Type:        "string",
				Description: "Body model to dress",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"garmentIds": {
				Type:        "array",
				Description: "Garments to try on, in layering order",
				MinItems:    validation.IntPtr(1),
				MaxItems:    validation.IntPtr(20),
				Items: &validation.Property{
					Type:      "string",
					MinLength: validation.IntPtr(1),
				},
			},
			"poseType": {
				Type:        "string",
				Description: "Pose to render, standing by default",
				MaxLength:   validation.IntPtr(32),
			},
			"lighting": {
				Type:        "string",
				Description: "Lighting preset, natural by default",
				MaxLength:   validation.IntPtr(32),
			},
		},
		AdditionalProperties: true,
	}
}
