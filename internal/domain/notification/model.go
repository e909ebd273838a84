// Package notification stores and serves per-user alert feeds.
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeMedication = "MEDICATION"
	TypeSystem     = "SYSTEM"
)

// Notification is one entry in a user's alert feed.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
