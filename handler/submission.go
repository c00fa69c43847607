package handler

import (
	"net/http"
	"strings"

	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissions *service.SubmissionService
}

func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// List handles GET /api/submissions[?department=...][&scope=all]
func (h *SubmissionHandler) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	opts := service.ListOptions{
		Department: strings.TrimSpace(c.Query("department")),
		All:        c.Query("scope") == "all",
	}
	subs, err := h.submissions.List(c.Request.Context(), &s.Employee, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var in service.SubmissionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	sub, err := h.submissions.Create(c.Request.Context(), &s.Employee, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": sub})
}
