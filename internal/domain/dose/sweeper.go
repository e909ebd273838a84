package dose

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper marks PENDING obligations as MISSED once they are overdue by more
// than the grace period, then escalates each one to the caretaker.
type Sweeper struct {
	doses    Repository
	notifier *CaretakerNotifier
	grace    time.Duration
	logger   zerolog.Logger
}

func NewSweeper(doses Repository, notifier *CaretakerNotifier, grace time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		doses:    doses,
		notifier: notifier,
		grace:    grace,
		logger:   logger.With().Str("component", "dose_sweeper").Logger(),
	}
}

// Sweep runs one pass. An obligation due exactly grace ago is still inside
// the window; only strictly older ones are missed. The PENDING precondition
// on the transition makes concurrent sweeps and user actions race-safe: each
// obligation is missed at most once, and a dose taken mid-sweep stays TAKEN.
func (s *Sweeper) Sweep(ctx context.Context) int {
	cutoff := time.Now().Add(-s.grace)
	overdue, err := s.doses.ListOverdue(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("overdue query failed")
		return 0
	}

	missed := 0
	for _, d := range overdue {
		moved, err := s.doses.TransitionByID(ctx, d.ID, StatusPending, StatusMissed)
		if errors.Is(err, ErrNotFound) {
			// Lost the race to a user action or another sweep.
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Str("dose_id", d.ID.String()).Msg("miss transition failed")
			continue
		}
		missed++
		s.notifier.DoseMissed(ctx, moved)
	}

	if missed > 0 {
		s.logger.Info().Int("missed", missed).Msg("sweep completed")
	}
	return missed
}
