package handler

import (
	"errors"
	"net/http"

	"github.com/aaraaapps/aaraa.app/middleware"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/aaraaapps/aaraa.app/wizard"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors onto HTTP statuses
func statusFor(err error) int {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidSubmission),
		errors.Is(err, wizard.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicate),
		errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrSubmitted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", "error", err)
		c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// session returns the authenticated session or answers 401
func session(c *gin.Context) (*model.Session, bool) {
	s := middleware.GetSession(c)
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return nil, false
	}
	return s, true
}
