package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

const defaultOrphanPrefix = "uploads/"

type AdminHandler struct {
	reconciler *service.Reconciler
}

func NewAdminHandler(reconciler *service.Reconciler) *AdminHandler {
	return &AdminHandler{reconciler: reconciler}
}

func orphanPrefix(c *gin.Context) string {
	if p, ok := c.GetQuery("prefix"); ok {
		return strings.TrimPrefix(strings.TrimSpace(p), "/")
	}
	return defaultOrphanPrefix
}

// Orphans lists stored objects that no submission references
func (h *AdminHandler) Orphans(c *gin.Context) {
	orphans, err := h.reconciler.Orphans(c.Request.Context(), orphanPrefix(c))
	if err != nil {
		logger.Error(c.Request.Context(), "orphan scan failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Reconciliation failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orphans": orphans, "count": len(orphans)})
}

func (h *AdminHandler) Purge(c *gin.Context) {
	removed, err := h.reconciler.Purge(c.Request.Context(), orphanPrefix(c))
	if errors.Is(err, service.ErrRetentionCapped) {
		c.JSON(http.StatusConflict, gin.H{"error": "Purge unavailable: " + err.Error()})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "orphan purge failed", "removed", len(removed), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Reconciliation failed: " + err.Error(),
			"removed": removed,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed, "count": len(removed)})
}
