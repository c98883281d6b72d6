package listbodymodels

import "bodyfit-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"userId": {
				Type:        "string",
				Description: "Only list body models owned by this user",
				MaxLength:   validation.IntPtr(64),
			},
			"limit": {
				Type:        "integer",
				Description: "Maximum number of body models to return",
				Minimum:     validation.FloatPtr(1),
				Maximum:     validation.FloatPtr(MaxLimit),
			},
		},
		AdditionalProperties: true,
	}
}
