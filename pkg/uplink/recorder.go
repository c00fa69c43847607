package uplink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aaraaapps/aaraa.app/model"
)

// Registration describes the submission created for an uploaded file
type Registration struct {
	Type       model.SubmissionType   `json:"type"`
	Title      string                 `json:"title"`
	Amount     *float64               `json:"amount,omitempty"`
	URL        string                 `json:"url"`
	Department string                 `json:"department,omitempty"`
	Status     model.SubmissionStatus `json:"status,omitempty"`
}

// Recorder stores a submission row for an uploaded object
type Recorder interface {
	Record(ctx context.Context, reg Registration) (*model.Submission, error)
}

// HTTPRecorder registers submissions through POST /api/submissions
type HTTPRecorder struct {
	client *Client
}

func NewHTTPRecorder(client *Client) *HTTPRecorder {
	return &HTTPRecorder{client: client}
}

type recordResponse struct {
	Success    bool              `json:"success"`
	Submission *model.Submission `json:"submission"`
	Error      string            `json:"error"`
}

func (r *HTTPRecorder) Record(ctx context.Context, reg Registration) (*model.Submission, error) {
	payload, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	var result recordResponse
	if err := r.client.doJSON(ctx, http.MethodPost, "/api/submissions", payload, &result); err != nil {
		return nil, err
	}
	if !result.Success || result.Submission == nil {
		return nil, fmt.Errorf("submission rejected: %s", result.Error)
	}
	return result.Submission, nil
}
