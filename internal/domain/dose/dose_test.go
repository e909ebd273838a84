package dose

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// mockRepo mirrors the postgres repo's semantics: slot-unique inserts and
// compare-and-swap status transitions.
type mockRepo struct {
	mu    sync.Mutex
	doses map[uuid.UUID]*DoseEvent
	slots map[string]bool

	failFor string // med name whose inserts fail, for error isolation tests
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		doses: make(map[uuid.UUID]*DoseEvent),
		slots: make(map[string]bool),
	}
}

func slotKey(d *DoseEvent) string {
	return fmt.Sprintf("%s|%s|%d", d.UserID, d.MedName, d.DueAt.UnixNano())
}

func (m *mockRepo) Create(_ context.Context, d *DoseEvent) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor != "" && d.MedName == m.failFor {
		return false, fmt.Errorf("insert failed for %s", d.MedName)
	}
	key := slotKey(d)
	if m.slots[key] {
		return false, nil
	}
	d.ID = uuid.New()
	if d.Status == "" {
		d.Status = StatusPending
	}
	d.UpdatedAt = time.Now()
	copied := *d
	m.doses[d.ID] = &copied
	m.slots[key] = true
	return true, nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*DoseEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*DoseEvent
	for _, d := range m.doses {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	// most recently due first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].DueAt.After(out[i].DueAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *mockRepo) ListOverdue(_ context.Context, cutoff time.Time) ([]*DoseEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*DoseEvent
	for _, d := range m.doses {
		if d.Status == StatusPending && d.DueAt.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockRepo) Transition(_ context.Context, id, userID uuid.UUID, from, to Status) (*DoseEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doses[id]
	if !ok || d.UserID != userID || d.Status != from {
		return nil, ErrNotFound
	}
	d.Status = to
	d.UpdatedAt = time.Now()
	copied := *d
	return &copied, nil
}

func (m *mockRepo) TransitionByID(_ context.Context, id uuid.UUID, from, to Status) (*DoseEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doses[id]
	if !ok || d.Status != from {
		return nil, ErrNotFound
	}
	d.Status = to
	d.UpdatedAt = time.Now()
	copied := *d
	return &copied, nil
}

func (m *mockRepo) get(id uuid.UUID) *DoseEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doses[id]
}

func (m *mockRepo) all() []*DoseEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*DoseEvent
	for _, d := range m.doses {
		out = append(out, d)
	}
	return out
}

type captureSink struct {
	mu     sync.Mutex
	alerts []Alert
}

func (s *captureSink) send(_ context.Context, a Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

// newTestNotifier wires a notifier over in-memory elder and caretaker
// directories.
func newTestNotifier(emails map[uuid.UUID]string, caretakers map[string]uuid.UUID, sink *captureSink) *CaretakerNotifier {
	emailOf := func(_ context.Context, userID uuid.UUID) (string, error) {
		return emails[userID], nil
	}
	resolve := func(_ context.Context, email string) (uuid.UUID, error) {
		return caretakers[email], nil
	}
	return NewCaretakerNotifier(emailOf, resolve, sink.send, zerolog.New(io.Discard))
}
