package model

import (
	"testing"
	"time"
)

func TestSubmissionStatusTransitions(t *testing.T) {
	tests := []struct {
		from     SubmissionStatus
		to       SubmissionStatus
		expected bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusEscalated, true},
		{StatusPending, StatusPending, false},
		{StatusEscalated, StatusApproved, true},
		{StatusEscalated, StatusRejected, true},
		{StatusEscalated, StatusPending, false},
		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSubmissionStatusTerminal(t *testing.T) {
	if !StatusApproved.Terminal() || !StatusRejected.Terminal() {
		t.Error("Expected APPROVED and REJECTED to be terminal")
	}
	if StatusPending.Terminal() || StatusEscalated.Terminal() {
		t.Error("Expected PENDING and ESCALATED to be non-terminal")
	}
}

func TestSubmissionTypeValid(t *testing.T) {
	for _, typ := range []SubmissionType{TypeBill, TypeSitePhoto, TypePettyCash} {
		if !typ.Valid() {
			t.Errorf("Expected %s to be valid", typ)
		}
	}
	if SubmissionType("INVOICE").Valid() {
		t.Error("Expected INVOICE to be invalid")
	}
}

func TestMockApprovalQueue(t *testing.T) {
	queue := MockApprovalQueue(time.Now())
	if len(queue) != 3 {
		t.Fatalf("Expected 3 mock submissions, got %d", len(queue))
	}

	expected := []string{"SUB501", "SUB502", "SUB503"}
	for i, sub := range queue {
		if sub.ID != expected[i] {
			t.Errorf("Expected '%s', got '%s'", expected[i], sub.ID)
		}
		if sub.Status != StatusPending {
			t.Errorf("Expected %s to be pending, got %s", sub.ID, sub.Status)
		}
	}
	if queue[2].Amount != nil {
		t.Error("Expected site photo to carry no amount")
	}
}
