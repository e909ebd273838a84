package medication

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrElderNotFound = errors.New("elder user not found")

// Seeder creates today's dose obligations for a newly assigned medication.
type Seeder interface {
	SeedMedication(ctx context.Context, m *Medication) error
}

// ElderResolver maps an elder's email to their user id. Returns uuid.Nil when
// no account matches.
type ElderResolver func(ctx context.Context, email string) (uuid.UUID, error)

// TxRunner executes fn as one atomic unit. When unset, fn runs directly on
// the caller's connection.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo   Repository
	seeder Seeder
	elders ElderResolver
	runTx  TxRunner
}

func NewService(repo Repository, seeder Seeder, elders ElderResolver) *Service {
	return &Service{repo: repo, seeder: seeder, elders: elders}
}

// SetTxRunner makes a medication insert and its same-day dose seeding commit
// as one unit.
func (s *Service) SetTxRunner(run TxRunner) {
	s.runTx = run
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, m *Medication) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	m.UserID = userID
	m.Active = true
	return s.createAndSeed(ctx, m)
}

// createAndSeed persists the medication and seeds today's slots, atomically
// when a TxRunner is wired.
func (s *Service) createAndSeed(ctx context.Context, m *Medication) error {
	run := func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return err
		}
		// Seeding failures must not fail the create.
		if s.seeder != nil {
			_ = s.seeder.SeedMedication(ctx, m)
		}
		return nil
	}
	if s.runTx == nil {
		return run(ctx)
	}
	return s.runTx(ctx, run)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Medication, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes a medication the user owns.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// AssignInput is a caretaker's medication assignment for an elder.
type AssignInput struct {
	PatientEmail string `json:"patientEmail"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Schedule     string `json:"schedule"`
}

// Assign creates a medication on the elder's account identified by email and
// seeds today's dose obligations.
func (s *Service) Assign(ctx context.Context, in AssignInput) (*Medication, error) {
	if in.PatientEmail == "" || in.Name == "" || in.Dosage == "" || in.Schedule == "" {
		return nil, fmt.Errorf("patientEmail, name, dosage, schedule are required")
	}
	elderID, err := s.elders(ctx, in.PatientEmail)
	if err != nil {
		return nil, err
	}
	if elderID == uuid.Nil {
		return nil, ErrElderNotFound
	}

	m := &Medication{
		UserID:   elderID,
		Name:     in.Name,
		Dosage:   in.Dosage,
		Schedule: in.Schedule,
		Active:   true,
	}
	if err := s.createAndSeed(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListForElder returns the regimen of the elder identified by email.
func (s *Service) ListForElder(ctx context.Context, email string) ([]*Medication, error) {
	if email == "" {
		return nil, fmt.Errorf("patientEmail is required")
	}
	elderID, err := s.elders(ctx, email)
	if err != nil {
		return nil, err
	}
	if elderID == uuid.Nil {
		return nil, ErrElderNotFound
	}
	return s.repo.ListByUser(ctx, elderID)
}

// UpdateInput carries the optional fields a caretaker may change.
type UpdateInput struct {
	Name     *string `json:"name"`
	Dosage   *string `json:"dosage"`
	Schedule *string `json:"schedule"`
}

func (s *Service) UpdateByID(ctx context.Context, id uuid.UUID, in UpdateInput) (*Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Dosage != nil {
		m.Dosage = *in.Dosage
	}
	if in.Schedule != nil {
		m.Schedule = *in.Schedule
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
