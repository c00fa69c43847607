package handler

import (
	"net/http"

	"github.com/aaraaapps/aaraa.app/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	center *service.NotificationCenter
}

func NewNotificationHandler(center *service.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{center: center}
}

func (h *NotificationHandler) List(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.center.List(s.Employee.ID),
		"unread":        h.center.Unread(s.Employee.ID),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	if err := h.center.MarkRead(s.Employee.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": h.center.Unread(s.Employee.ID)})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	h.center.MarkAllRead(s.Employee.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": 0})
}
