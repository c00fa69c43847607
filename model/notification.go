package model

import "time"

// NotificationType is the severity of a notification
type NotificationType string

const (
	NotifyInfo    NotificationType = "INFO"
	NotifySuccess NotificationType = "SUCCESS"
	NotifyWarning NotificationType = "WARNING"
	NotifyError   NotificationType = "ERROR"
)

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
