// Package patient manages the roster of people a caretaker looks after.
package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a person under a caretaker's watch. The email links the patient
// record to the elder's own user account for missed-dose escalation.
type Patient struct {
	ID            uuid.UUID `json:"id"`
	CaretakerID   uuid.UUID `json:"caretaker_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contact_number"`
	Condition     string    `json:"condition"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
