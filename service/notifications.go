package service

import (
	"strings"
	"sync"
	"time"

	"github.com/aaraaapps/aaraa.app/model"
	"github.com/google/uuid"
)

// DefaultNotificationLimit caps the notifications kept per employee
const DefaultNotificationLimit = 50

// NotificationCenter keeps per-employee notifications in memory, newest first
type NotificationCenter struct {
	mu    sync.Mutex
	inbox map[string][]model.Notification
	limit int
	now   func() time.Time
}

func NewNotificationCenter(limit int) *NotificationCenter {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &NotificationCenter{
		inbox: make(map[string][]model.Notification),
		limit: limit,
		now:   time.Now,
	}
}

func inboxKey(employeeID string) string {
	return strings.ToUpper(strings.TrimSpace(employeeID))
}

// Push prepends a notification for employeeID and returns it
func (c *NotificationCenter) Push(employeeID, title, message string, typ model.NotificationType) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := inboxKey(employeeID)
	list := append([]model.Notification{n}, c.inbox[key]...)
	if len(list) > c.limit {
		list = list[:c.limit]
	}
	c.inbox[key] = list
	return n
}

func (c *NotificationCenter) List(employeeID string) []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Notification{}, c.inbox[inboxKey(employeeID)]...)
}

func (c *NotificationCenter) Unread(employeeID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.inbox[inboxKey(employeeID)] {
		if !n.Read {
			count++
		}
	}
	return count
}

func (c *NotificationCenter) MarkRead(employeeID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.inbox[inboxKey(employeeID)]
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (c *NotificationCenter) MarkAllRead(employeeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.inbox[inboxKey(employeeID)]
	for i := range list {
		list[i].Read = true
	}
}
