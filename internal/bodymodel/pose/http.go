package pose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bodyfit-workers/internal/bodymodel/keypoints"
	httpclient "bodyfit-workers/internal/common/http"
)

const landmarksPath = "/v1/pose/landmarks"

type landmarksResponse struct {
	Detected  bool                      `json:"detected"`
	Landmarks []keypoints.SkeletalPoint `json:"landmarks"`
}

// HTTPEstimator calls a pose-estimation service that accepts raw image bytes and
// answers with the 33-landmark skeleton.
type HTTPEstimator struct {
	baseURL string
	client  *httpclient.Client
}

func NewHTTPEstimator(baseURL string, client *httpclient.Client) *HTTPEstimator {
	return &HTTPEstimator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (e *HTTPEstimator) Estimate(ctx context.Context, image []byte) ([]keypoints.SkeletalPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+landmarksPath, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("build pose request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("pose request: %w", err)
	}

	var out landmarksResponse
	if err := httpclient.DecodeJSON(resp, &out); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnprocessableEntity {
			return nil, ErrNoPoseDetected
		}
		return nil, fmt.Errorf("pose response: %w", err)
	}

	if !out.Detected || len(out.Landmarks) == 0 {
		return nil, ErrNoPoseDetected
	}
	return out.Landmarks, nil
}
