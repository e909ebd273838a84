package dose

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ElderEmailLookup returns the email of the elder's user account, or empty
// when the account has none.
type ElderEmailLookup func(ctx context.Context, userID uuid.UUID) (string, error)

// CaretakerResolver maps an elder email to the responsible caretaker's user
// id. uuid.Nil means nobody is watching this elder.
type CaretakerResolver func(ctx context.Context, email string) (uuid.UUID, error)

// Alert is a caretaker-facing notification about a dose outcome.
type Alert struct {
	UserID  uuid.UUID
	Type    string
	Title   string
	Message string
	Icon    string
	Color   string
}

// AlertSink delivers an alert to the caretaker's notification feed.
type AlertSink func(ctx context.Context, a Alert) error

// CaretakerNotifier escalates missed and skipped doses to the elder's
// caretaker. Every link in the chain (email on the account, a matching
// patient record, a caretaker on it) may be absent; any gap is a silent no-op
// so the dose transition itself is never blocked.
type CaretakerNotifier struct {
	emailOf    ElderEmailLookup
	caretakers CaretakerResolver
	sink       AlertSink
	logger     zerolog.Logger
}

func NewCaretakerNotifier(emailOf ElderEmailLookup, caretakers CaretakerResolver, sink AlertSink, logger zerolog.Logger) *CaretakerNotifier {
	return &CaretakerNotifier{
		emailOf:    emailOf,
		caretakers: caretakers,
		sink:       sink,
		logger:     logger.With().Str("component", "caretaker_notifier").Logger(),
	}
}

// DoseMissed alerts the caretaker that a dose went unanswered past the grace
// period.
func (n *CaretakerNotifier) DoseMissed(ctx context.Context, d *DoseEvent) {
	n.notify(ctx, d, "Medicine missed", "⏰")
}

// DoseSkipped alerts the caretaker that the elder declined a dose.
func (n *CaretakerNotifier) DoseSkipped(ctx context.Context, d *DoseEvent) {
	n.notify(ctx, d, "Dose skipped", "💊")
}

func (n *CaretakerNotifier) notify(ctx context.Context, d *DoseEvent, title, icon string) {
	email, err := n.emailOf(ctx, d.UserID)
	if err != nil {
		n.logger.Warn().Err(err).Str("user_id", d.UserID.String()).Msg("elder lookup failed")
		return
	}
	if email == "" {
		return
	}

	caretakerID, err := n.caretakers(ctx, email)
	if err != nil {
		n.logger.Warn().Err(err).Str("user_id", d.UserID.String()).Msg("caretaker resolution failed")
		return
	}
	if caretakerID == uuid.Nil {
		return
	}

	name := d.MedName
	if name == "" {
		name = "Medication"
	}
	alert := Alert{
		UserID:  caretakerID,
		Type:    "MEDICATION",
		Title:   title,
		Message: strings.TrimSpace(name + " " + d.Dosage),
		Icon:    icon,
		Color:   "#ef4444",
	}
	if err := n.sink(ctx, alert); err != nil {
		n.logger.Warn().Err(err).Str("caretaker_id", caretakerID.String()).Msg("alert delivery failed")
	}
}
