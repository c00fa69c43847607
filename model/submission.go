package model

import (
	"time"
)

// SubmissionType classifies an uploaded artifact
type SubmissionType string

const (
	TypeBill      SubmissionType = "BILL"
	TypeSitePhoto SubmissionType = "SITE_PHOTO"
	TypePettyCash SubmissionType = "PETTY_CASH"
)

// Valid reports whether t is a known submission type
func (t SubmissionType) Valid() bool {
	return t == TypeBill || t == TypeSitePhoto || t == TypePettyCash
}

// SubmissionStatus is the approval state of a submission
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "PENDING"
	StatusApproved  SubmissionStatus = "APPROVED"
	StatusRejected  SubmissionStatus = "REJECTED"
	StatusEscalated SubmissionStatus = "ESCALATED"
)

// Terminal reports whether no further transition is possible from s.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a submission may move from s to next.
// PENDING may go anywhere; ESCALATED may only be decided; decisions are final.
func (s SubmissionStatus) CanTransition(next SubmissionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusEscalated
	case StatusEscalated:
		return next == StatusApproved || next == StatusRejected
	}
	return false
}

// Submission is an uploaded artifact plus its approval lifecycle
type Submission struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	Type         SubmissionType   `json:"type"`
	Title        string           `json:"title"`
	Amount       *float64         `json:"amount,omitempty"`
	URL          string           `json:"url"`
	Status       SubmissionStatus `json:"status"`
	Reason       string           `json:"reason,omitempty"`
	DecidedBy    string           `json:"decided_by,omitempty"`
	Department   string           `json:"department"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// MockApprovalQueue returns the demo approval queue used to seed an empty
// in-memory store.
func MockApprovalQueue(now time.Time) []*Submission {
	steel := 125000.0
	safety := 8400.0
	return []*Submission{
		{ID: "SUB501", EmployeeID: "AI1003", EmployeeName: "Manikandan", Type: TypeBill, Title: "Steel Supply (Site A)", Amount: &steel, URL: "https://picsum.photos/500/800", Status: StatusPending, Department: "Site", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "SUB502", EmployeeID: "AI1008", EmployeeName: "Imtiaz", Type: TypeBill, Title: "Safety Equipment Procurement", Amount: &safety, URL: "https://picsum.photos/500/800", Status: StatusPending, Department: "Procurement", CreatedAt: now.Add(-5 * time.Hour)},
		{ID: "SUB503", EmployeeID: "AI1027", EmployeeName: "Ajith", Type: TypeSitePhoto, Title: "Tower 4 Inspection Report", URL: "https://picsum.photos/500/800", Status: StatusPending, Department: "Site", CreatedAt: now.Add(-24 * time.Hour)},
	}
}
