package dose

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("dose event not found")

type Repository interface {
	// Create inserts the obligation unless one already exists for the same
	// user, medication and due time. Reports whether a row was inserted.
	Create(ctx context.Context, d *DoseEvent) (bool, error)
	// ListByUser returns the user's obligations, most recently due first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*DoseEvent, error)
	// ListOverdue returns PENDING obligations due strictly before cutoff.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*DoseEvent, error)
	// Transition atomically moves the user's obligation from one status to
	// another. Returns ErrNotFound when the row is absent, owned by someone
	// else, or not in the expected status.
	Transition(ctx context.Context, id, userID uuid.UUID, from, to Status) (*DoseEvent, error)
	// TransitionByID is Transition without the ownership filter, for sweeps.
	TransitionByID(ctx context.Context, id uuid.UUID, from, to Status) (*DoseEvent, error)
}
