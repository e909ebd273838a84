package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddPatient(ctx context.Context, caretakerID uuid.UUID, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	p.CaretakerID = caretakerID
	if p.Status == "" {
		p.Status = "Active"
	}
	return s.repo.Create(ctx, p)
}

// GetPatient returns the record only when it belongs to the caretaker.
func (s *Service) GetPatient(ctx context.Context, caretakerID, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CaretakerID != caretakerID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListPatients(ctx context.Context, caretakerID uuid.UUID) ([]*Patient, error) {
	return s.repo.ListByCaretaker(ctx, caretakerID)
}

func (s *Service) UpdatePatient(ctx context.Context, caretakerID uuid.UUID, p *Patient) error {
	existing, err := s.GetPatient(ctx, caretakerID, p.ID)
	if err != nil {
		return err
	}
	p.CaretakerID = existing.CaretakerID
	if p.Status == "" {
		p.Status = existing.Status
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, caretakerID, id uuid.UUID) error {
	if _, err := s.GetPatient(ctx, caretakerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CaretakerFor resolves the caretaker responsible for the given elder email.
// Returns uuid.Nil with no error when no patient record matches.
func (s *Service) CaretakerFor(ctx context.Context, email string) (uuid.UUID, error) {
	if email == "" {
		return uuid.Nil, nil
	}
	p, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return p.CaretakerID, nil
}
