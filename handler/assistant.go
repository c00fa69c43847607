package handler

import (
	"errors"
	"net/http"

	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

const assistantUnavailable = "Service unavailable. Please try again."

type AssistantHandler struct {
	assistant *service.Assistant
}

func NewAssistantHandler(assistant *service.Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type InsightRequest struct {
	Context string `json:"context"`
}

type ChatRequest struct {
	Message string                `json:"message" binding:"required"`
	History []service.ChatMessage `json:"history"`
}

// Insight never fails; the assistant substitutes its fallback text
func (h *AssistantHandler) Insight(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var req InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"insight": h.assistant.Insight(c.Request.Context(), &s.Employee, req.Context),
	})
}

func (h *AssistantHandler) Chat(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), &s.Employee, req.History, req.Message)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, service.ErrAssistantDisabled) {
			status = http.StatusServiceUnavailable
		}
		logger.Warn(c.Request.Context(), "assistant chat failed", "error", err)
		c.JSON(status, gin.H{"error": assistantUnavailable})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
