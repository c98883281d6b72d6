package updatetryonpose

import (
	"bytes"
	"encoding/json"
	"time"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/tryon"
)

type Input struct {
	SessionID  string                    `json:"sessionId"`
	PoseType   string                    `json:"poseType"`
	CustomPose *bodymodel.PoseParameters `json:"customPoseData,omitempty"`
}

type Output struct {
	SessionID   string                    `json:"sessionId"`
	PoseType    string                    `json:"poseType"`
	CustomPose  *bodymodel.PoseParameters `json:"customPoseData,omitempty"`
	TryOnResult tryon.Composition         `json:"tryOnResult"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

// decodeCustomPose overlays the supplied fields on the neutral pose. Unknown keys
// are rejected.
func decodeCustomPose(raw map[string]interface{}) (*bodymodel.PoseParameters, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	pose := bodymodel.DefaultPoseParameters()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pose); err != nil {
		return nil, err
	}
	return &pose, nil
}
