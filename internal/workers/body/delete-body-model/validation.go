package deletebodymodel

import "bodyfit-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"bodyModelId"},
		Properties: map[string]validation.Property{
			"bodyModelId": {
				Type:        "string",
				Description: "Body model to delete",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
		},
		AdditionalProperties: true,
	}
}
