package dose

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	notifier *CaretakerNotifier
}

func NewService(repo Repository, notifier *CaretakerNotifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// List returns the user's dose history, most recently due first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*DoseEvent, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkTaken confirms a pending dose. Returns ErrNotFound when the dose does
// not exist, belongs to another user, or has already left PENDING.
func (s *Service) MarkTaken(ctx context.Context, userID, id uuid.UUID) (*DoseEvent, error) {
	return s.repo.Transition(ctx, id, userID, StatusPending, StatusTaken)
}

// MarkSkipped declines a pending dose and escalates to the caretaker.
func (s *Service) MarkSkipped(ctx context.Context, userID, id uuid.UUID) (*DoseEvent, error) {
	d, err := s.repo.Transition(ctx, id, userID, StatusPending, StatusSkipped)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.DoseSkipped(ctx, d)
	}
	return d, nil
}
