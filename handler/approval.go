package handler

import (
	"net/http"

	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvals *service.ApprovalService
}

func NewApprovalHandler(approvals *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

type DecisionRequest struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason"`
}

func (h *ApprovalHandler) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	pending, err := h.approvals.Pending(c.Request.Context(), s.Employee.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approvals": pending})
}

// Decide handles POST /api/approvals/:id
func (h *ApprovalHandler) Decide(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	decision, err := h.approvals.Decide(c.Request.Context(), &s.Employee, c.Param("id"), req.Action, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    decision.Message,
		"submission": decision.Submission,
	})
}
