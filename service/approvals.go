package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
)

// ApprovalService moves submissions through the approval queue
type ApprovalService struct {
	repo          SubmissionRepository
	notifications *NotificationCenter
}

func NewApprovalService(repo SubmissionRepository, notifications *NotificationCenter) *ApprovalService {
	return &ApprovalService{repo: repo, notifications: notifications}
}

// Pending lists submissions awaiting a decision by role.
// Escalations reach only SUPER_ADMIN.
func (s *ApprovalService) Pending(ctx context.Context, role model.Role) ([]*model.Submission, error) {
	statuses := []model.SubmissionStatus{model.StatusPending}
	if role == model.RoleSuperAdmin {
		statuses = append(statuses, model.StatusEscalated)
	}
	return s.repo.ListSubmissions(ctx, SubmissionFilter{Statuses: statuses})
}

// ParseAction maps a requested action onto a target status
func ParseAction(action string) (model.SubmissionStatus, error) {
	switch st := model.SubmissionStatus(strings.ToUpper(strings.TrimSpace(action))); st {
	case model.StatusApproved, model.StatusRejected, model.StatusEscalated:
		return st, nil
	}
	return "", fmt.Errorf("%q: %w", action, ErrInvalidAction)
}

// Decision is the outcome of Decide
type Decision struct {
	Submission *model.Submission
	Message    string
}

// Decide applies action to submission id on behalf of decider.
// A rejection needs a non-blank reason; escalation is reserved for ADMIN.
func (s *ApprovalService) Decide(ctx context.Context, decider *model.Employee, id, action, reason string) (*Decision, error) {
	to, err := ParseAction(action)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if to == model.StatusRejected && reason == "" {
		return nil, ErrReasonRequired
	}
	if to == model.StatusEscalated && decider.Role != model.RoleAdmin {
		return nil, fmt.Errorf("escalate as %s: %w", decider.Role, ErrForbidden)
	}

	sub, err := s.repo.TransitionSubmission(ctx, id, to, reason, decider.ID)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "submission decided",
		"submission_id", sub.ID,
		"status", sub.Status,
		"owner", sub.EmployeeID,
	)
	s.notifyOwner(sub)

	return &Decision{
		Submission: sub,
		Message:    fmt.Sprintf("Submission %s %s successfully.", sub.ID, strings.ToLower(string(to))),
	}, nil
}

func (s *ApprovalService) notifyOwner(sub *model.Submission) {
	if s.notifications == nil {
		return
	}
	switch sub.Status {
	case model.StatusApproved:
		s.notifications.Push(sub.EmployeeID, "Submission Approved",
			fmt.Sprintf("%s has been approved.", sub.Title), model.NotifySuccess)
	case model.StatusRejected:
		s.notifications.Push(sub.EmployeeID, "Submission Rejected",
			fmt.Sprintf("%s was rejected: %s", sub.Title, sub.Reason), model.NotifyError)
	case model.StatusEscalated:
		s.notifications.Push(sub.EmployeeID, "Submission Escalated",
			fmt.Sprintf("%s has been escalated to the MD.", sub.Title), model.NotifyWarning)
	}
}
