package updatebodymeasurements

import "bodyfit-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	measurement := func(description string) validation.Property {
		return validation.Property{
			Type:        "number",
			Description: description,
			Minimum:     validation.FloatPtr(0),
		}
	}

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"bodyModelId"},
		Properties: map[string]validation.Property{
			"bodyModelId": {
				Type:        "string",
				Description: "Body model to update",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"height": measurement("Height in centimetres"),
			"weight": measurement("Weight in kilograms"),
			"chest":  measurement("Chest circumference in centimetres"),
			"waist":  measurement("Waist circumference in centimetres"),
			"hips":   measurement("Hip circumference in centimetres"),
		},
		AdditionalProperties: true,
	}
}
