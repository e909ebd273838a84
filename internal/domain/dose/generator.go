package dose

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medimate/medimate/internal/domain/medication"
)

// MedicationLister provides the active regimens to expand into obligations.
type MedicationLister interface {
	ListActive(ctx context.Context) ([]*medication.Medication, error)
}

// Generator expands medication schedules into PENDING dose events. Inserts
// are idempotent, so re-running a day is safe.
type Generator struct {
	meds   MedicationLister
	doses  Repository
	logger zerolog.Logger
}

func NewGenerator(meds MedicationLister, doses Repository, logger zerolog.Logger) *Generator {
	return &Generator{
		meds:   meds,
		doses:  doses,
		logger: logger.With().Str("component", "dose_generator").Logger(),
	}
}

// GenerateForDate creates the day's obligations for every active medication.
// A failure on one medication does not stop the others.
func (g *Generator) GenerateForDate(ctx context.Context, date time.Time) (int, error) {
	meds, err := g.meds.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active medications: %w", err)
	}

	created := 0
	failed := 0
	for _, m := range meds {
		n, err := g.seed(ctx, m, date)
		if err != nil {
			failed++
			g.logger.Error().Err(err).
				Str("medication_id", m.ID.String()).
				Str("med_name", m.Name).
				Msg("dose generation failed for medication")
			continue
		}
		created += n
	}
	if failed > 0 && failed == len(meds) {
		return 0, fmt.Errorf("dose generation failed for all %d medications", failed)
	}

	g.logger.Info().
		Str("date", date.Format("2006-01-02")).
		Int("created", created).
		Int("medications", len(meds)).
		Msg("dose generation completed")
	return created, nil
}

// SeedMedication creates today's obligations for a single regimen, so a
// medication assigned mid-day still gets its remaining slots.
func (g *Generator) SeedMedication(ctx context.Context, m *medication.Medication) error {
	_, err := g.seed(ctx, m, time.Now())
	return err
}

func (g *Generator) seed(ctx context.Context, m *medication.Medication, date time.Time) (int, error) {
	if !m.Active {
		return 0, nil
	}
	created := 0
	for _, slot := range medication.ParseSchedule(m.Schedule) {
		d := &DoseEvent{
			UserID:  m.UserID,
			MedName: m.Name,
			Dosage:  m.Dosage,
			DueAt:   slot.At(date),
			Status:  StatusPending,
		}
		inserted, err := g.doses.Create(ctx, d)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}
