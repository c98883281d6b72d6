package createbodymodel

import "bodyfit-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"image"},
		Properties: map[string]validation.Property{
			"image": {
				Type:        "string",
				Description: "Base64 encoded photograph, optionally as a data URL",
				MinLength:   validation.IntPtr(1),
			},
			"referenceHeight": {
				Type:        "number",
				Description: "Known height of the person in centimetres",
				Maximum:     validation.FloatPtr(300),
			},
			"userId": {
				Type:        "string",
				Description: "Owner of the body model",
				MaxLength:   validation.IntPtr(128),
			},
			"bodyModelId": {
				Type:        "string",
				Description: "Caller supplied body model id",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
		},
		AdditionalProperties: true,
	}
}
