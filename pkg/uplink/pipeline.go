package uplink

import (
	"context"
	"io"

	"github.com/aaraaapps/aaraa.app/model"
)

// Progress milestones reported by Pipeline.Run
const (
	ProgressStarted  = 10
	ProgressSending  = 45
	ProgressReceived = 85
	ProgressRecorded = 100
)

// ProgressFunc receives a completion percentage
type ProgressFunc func(percent int)

// Request is a file to upload plus the submission it becomes
type Request struct {
	Filename   string
	Body       io.Reader
	Path       string
	Type       model.SubmissionType
	Title      string
	Amount     *float64
	Department string
	Status     model.SubmissionStatus
}

type Result struct {
	URL        string
	Path       string
	Submission *model.Submission
}

// Pipeline uploads a file and then records it as a submission. The two
// steps are not atomic.
type Pipeline struct {
	client   *Client
	recorder Recorder
}

func NewPipeline(client *Client, recorder Recorder) *Pipeline {
	return &Pipeline{client: client, recorder: recorder}
}

// Run performs upload then registration. A failed upload records nothing.
// A failed registration after a stored upload returns *OrphanError.
func (p *Pipeline) Run(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(int) {}
	}

	progress(ProgressStarted)
	progress(ProgressSending)
	up, err := p.client.Upload(ctx, req.Filename, req.Body, req.Path)
	if err != nil {
		return nil, err
	}
	progress(ProgressReceived)

	title := req.Title
	if title == "" {
		title = req.Filename
	}
	sub, err := p.recorder.Record(ctx, Registration{
		Type:       req.Type,
		Title:      title,
		Amount:     req.Amount,
		URL:        up.URL,
		Department: req.Department,
		Status:     req.Status,
	})
	if err != nil {
		return nil, &OrphanError{URL: up.URL, Err: err}
	}
	progress(ProgressRecorded)

	return &Result{URL: up.URL, Path: up.Path, Submission: sub}, nil
}
