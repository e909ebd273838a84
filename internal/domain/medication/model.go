// Package medication manages medication regimens and their daily schedules.
package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication is a recurring regimen owned by one user. Schedule is a
// comma-separated list of 24h clock times, e.g. "08:00, 20:00".
type Medication struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Schedule  string    `json:"schedule"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
