package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationLevel classifies a notification for display.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a dismissible, non-blocking message for the editor user.
type Notification struct {
	Level     NotificationLevel `json:"level"`
	Title     string            `json:"title"`
	Messages  []string          `json:"messages,omitempty"`
	More      int               `json:"more,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Text renders the notification as a single line.
func (n Notification) Text() string {
	var b strings.Builder
	b.WriteString(n.Title)
	if len(n.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(n.Messages, "; "))
	}
	if n.More > 0 {
		fmt.Fprintf(&b, " (+%d more)", n.More)
	}
	return b.String()
}
