// Package dose implements the dose lifecycle: obligations are generated from
// medication schedules, acted on by elders, and swept to MISSED when the grace
// period lapses.
package dose

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a dose obligation. PENDING is the only
// non-terminal state.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusTaken   Status = "TAKEN"
	StatusSkipped Status = "SKIPPED"
	StatusMissed  Status = "MISSED"
)

// DoseEvent is one concrete obligation: take this medication at this time.
// MedName and Dosage are denormalized so the record survives later edits to
// the medication.
type DoseEvent struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	MedName   string    `json:"med_name"`
	Dosage    string    `json:"dosage"`
	DueAt     time.Time `json:"due_at"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
