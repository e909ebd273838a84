// Package identity manages user accounts and session lifecycle.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Roles a user account can hold.
const (
	RoleElder     = "elder"
	RoleCaretaker = "caretaker"
	RoleAdmin     = "admin"
)

var validRoles = map[string]bool{
	RoleElder:     true,
	RoleCaretaker: true,
	RoleAdmin:     true,
}

// User is an account that can authenticate and own medications.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HashPassword returns the hex-encoded SHA-256 digest used for credential
// storage and comparison.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
