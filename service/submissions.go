package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aaraaapps/aaraa.app/model"
)

// SubmissionInput is what a caller supplies when registering an upload
type SubmissionInput struct {
	Type       model.SubmissionType   `json:"type"`
	Title      string                 `json:"title"`
	Amount     *float64               `json:"amount"`
	URL        string                 `json:"url"`
	Department string                 `json:"department"`
	Status     model.SubmissionStatus `json:"status"`
}

// ListOptions selects which submissions a caller sees
type ListOptions struct {
	Department string
	All        bool
}

type SubmissionService struct {
	repo SubmissionRepository
}

func NewSubmissionService(repo SubmissionRepository) *SubmissionService {
	return &SubmissionService{repo: repo}
}

// Create registers a submission owned by employee. Only PENDING and APPROVED
// are accepted as initial statuses; empty means PENDING.
func (s *SubmissionService) Create(ctx context.Context, employee *model.Employee, in SubmissionInput) (*model.Submission, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("unknown type %q: %w", in.Type, ErrInvalidSubmission)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidSubmission)
	}
	if strings.TrimSpace(in.URL) == "" {
		return nil, fmt.Errorf("url is required: %w", ErrInvalidSubmission)
	}

	status := in.Status
	switch status {
	case "":
		status = model.StatusPending
	case model.StatusPending, model.StatusApproved:
	default:
		return nil, fmt.Errorf("initial status %q: %w", status, ErrInvalidSubmission)
	}

	department := strings.TrimSpace(in.Department)
	if department == "" {
		department = employee.Department
	}

	sub := &model.Submission{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Type:         in.Type,
		Title:        title,
		Amount:       in.Amount,
		URL:          strings.TrimSpace(in.URL),
		Status:       status,
		Department:   department,
	}
	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns the caller's own submissions unless an admin asks for a
// department or for everything.
func (s *SubmissionService) List(ctx context.Context, caller *model.Employee, opts ListOptions) ([]*model.Submission, error) {
	privileged := caller.Role == model.RoleAdmin || caller.Role == model.RoleSuperAdmin
	if (opts.All || opts.Department != "") && !privileged {
		return nil, ErrForbidden
	}

	var f SubmissionFilter
	switch {
	case opts.All:
	case opts.Department != "":
		f.Department = opts.Department
	default:
		f.EmployeeID = caller.ID
	}
	return s.repo.ListSubmissions(ctx, f)
}
