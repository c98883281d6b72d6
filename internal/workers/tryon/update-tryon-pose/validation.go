package updatetryonpose

import "bodyfit-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"sessionId", "poseType"},
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:        "string",
				Description: "Try-on session to update",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"poseType": {
				Type:        "string",
				Description: "New pose",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(32),
			},
			"customPoseData": {
				Type:        "object",
				Description: "Pose parameters overriding the neutral stance",
			},
		},
		AdditionalProperties: true,
	}
}
