// Package jobs runs recurring background work on cron schedules.
package jobs

import (
	"fmt"
	"runtime"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler registers named jobs against cron expressions and runs them until
// stopped. Job panics are recovered and logged so one bad run cannot take the
// scheduler down.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

// Register schedules fn to run per the cron expression (standard 5-field
// syntax). The name appears in logs for every run.
func (s *Scheduler) Register(name, spec string, fn func()) error {
	wrapped := func() {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)
				s.logger.Error().
					Str("job", name).
					Interface("panic", r).
					Bytes("stack", stack[:n]).
					Msg("job panicked")
			}
		}()

		s.logger.Debug().Str("job", name).Msg("job started")
		fn()
		s.logger.Debug().
			Str("job", name).
			Dur("duration", time.Since(start)).
			Msg("job finished")
	}

	if _, err := s.cron.AddFunc(spec, wrapped); err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	s.logger.Info().Str("job", name).Str("schedule", spec).Msg("job registered")
	return nil
}

// Start begins running registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("scheduler stopped")
}
