package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Pinger is implemented by backends that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	bucket      string
	environment string
	database    Pinger
}

// NewHealthHandler builds the health endpoint. database may be nil when the
// gateway runs on the in-memory store.
func NewHealthHandler(bucket, environment string, database Pinger) *HealthHandler {
	return &HealthHandler{bucket: bucket, environment: environment, database: database}
}

func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":      "ok",
		"bucket":      h.bucket,
		"environment": h.environment,
		"timestamp":   time.Now().Format(time.RFC3339),
	}
	if h.database == nil {
		body["database"] = "memory"
		c.JSON(http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.database.Ping(ctx); err != nil {
		logger.Warn(ctx, "database ping failed", "error", err)
		body["status"] = "degraded"
		body["database"] = "unreachable"
	} else {
		body["database"] = "ok"
	}
	c.JSON(http.StatusOK, body)
}
