package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/middleware"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	config    *config.AuthConfig
	employees service.EmployeeDirectory
	passwords *service.PasswordChecker
	revoked   *middleware.Revocations
}

func NewAuthHandler(cfg *config.AuthConfig, employees service.EmployeeDirectory, revoked *middleware.Revocations) *AuthHandler {
	return &AuthHandler{
		config:    cfg,
		employees: employees,
		passwords: service.NewPasswordChecker(cfg),
		revoked:   revoked,
	}
}

type LoginRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Success   bool           `json:"success"`
	Token     string         `json:"token"`
	ExpiresAt string         `json:"expires_at"`
	SessionID string         `json:"session_id"`
	Employee  model.Employee `json:"employee"`
}

// Login checks the password first and only then resolves the employee
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	ctx := c.Request.Context()

	if err := h.passwords.Check(req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.employees.FindEmployee(ctx, strings.TrimSpace(req.EmployeeID))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	token, sessionID, expiresAt, err := middleware.GenerateToken(employee, h.config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info(ctx, "employee signed in",
		"employee_id", employee.ID,
		"role", employee.Role,
		"session_id", sessionID,
	)
	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		SessionID: sessionID,
		Employee:  *employee,
	})
}

// Logout ends the current session for the rest of its token lifetime
func (h *AuthHandler) Logout(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	until := middleware.GetTokenExpiry(c)
	if until.IsZero() {
		until = time.Now().Add(time.Duration(h.config.TokenExpireHours) * time.Hour)
	}
	h.revoked.Revoke(s.ID, until)
	logger.Info(c.Request.Context(), "employee signed out", "session_id", s.ID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the session together with the features its role may reach
func (h *AuthHandler) Me(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID,
		"employee":   s.Employee,
		"features":   model.MenuFor(s.Employee.Role),
	})
}

func (h *AuthHandler) Menu(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": model.MenuFor(s.Employee.Role)})
}
