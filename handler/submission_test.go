package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

func newSubmissionRouter(e model.Employee) *gin.Engine {
	h := NewSubmissionHandler(service.NewSubmissionService(newTestStore()))
	router := gin.New()
	router.Use(asEmployee(e))
	router.GET("/api/submissions", h.List)
	router.POST("/api/submissions", h.Create)
	return router
}

func TestSubmissionHandlerCreate(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
	}{
		{
			name:           "bill with amount",
			body:           map[string]any{"type": "BILL", "title": "Cement", "amount": 4200, "url": "https://example.com/a.pdf"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing url",
			body:           map[string]any{"type": "BILL", "title": "Cement"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown type",
			body:           map[string]any{"type": "MEMO", "title": "x", "url": "https://example.com/x"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "status cannot start rejected",
			body:           map[string]any{"type": "BILL", "title": "x", "url": "https://example.com/x", "status": "REJECTED"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newSubmissionRouter(foreman)
			w := doJSON(router, http.MethodPost, "/api/submissions", tt.body)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusCreated {
				return
			}
			var resp struct {
				Success    bool             `json:"success"`
				Submission model.Submission `json:"submission"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if !resp.Success || resp.Submission.ID == "" {
				t.Errorf("Unexpected response: %s", w.Body.String())
			}
			if resp.Submission.EmployeeID != foreman.ID || resp.Submission.Department != "Site" {
				t.Errorf("Expected submission owned by the caller, got %+v", resp.Submission)
			}
			if resp.Submission.Status != model.StatusPending {
				t.Errorf("Expected PENDING, got %s", resp.Submission.Status)
			}
		})
	}
}

func TestSubmissionHandlerList(t *testing.T) {
	tests := []struct {
		name           string
		employee       model.Employee
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"own submissions", foreman, "", http.StatusOK, 1},
		{"user cannot list vault", foreman, "?scope=all", http.StatusForbidden, 0},
		{"user cannot filter department", foreman, "?department=Site", http.StatusForbidden, 0},
		{"admin lists vault", director, "?scope=all", http.StatusOK, 3},
		{"admin filters department", director, "?department=Site", http.StatusOK, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newSubmissionRouter(tt.employee)
			w := doJSON(router, http.MethodGet, "/api/submissions"+tt.query, nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp struct {
				Submissions []model.Submission `json:"submissions"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if len(resp.Submissions) != tt.expectedCount {
				t.Errorf("Expected %d submissions, got %d", tt.expectedCount, len(resp.Submissions))
			}
		})
	}
}
