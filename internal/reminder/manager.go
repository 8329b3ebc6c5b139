package reminder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/logging"
	"github.com/notexe/assistant/internal/parser"
)

// Manager owns the live reminder collection. Every access goes through mu,
// which is held only for a single scan-and-mutate step and never across I/O.
type Manager struct {
	mu        sync.Mutex
	reminders []*Reminder
	nextID    int64

	now    func() time.Time
	logger logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger logging.Logger) Option {
	return func(m *Manager) {
		m.logger = logging.OrNop(logger)
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the manager's notion of the current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Add resolves timeSpec and stores a new pending reminder.
func (m *Manager) Add(label, timeSpec string) (AddResult, error) {
	label = strings.TrimSpace(label)
	timeSpec = strings.TrimSpace(timeSpec)

	now := m.now()
	target, err := parser.ResolvePhrase(timeSpec, now)
	if err != nil {
		return AddResult{}, err
	}
	if label == "" {
		return AddResult{}, errors.NewEmptyLabel()
	}
	if !target.After(now) {
		return AddResult{}, errors.NewPastTime(timeSpec)
	}

	m.mu.Lock()
	m.nextID++
	r := &Reminder{
		ID:          m.nextID,
		Label:       label,
		TargetTime:  target,
		RawTimeSpec: timeSpec,
		CreatedAt:   now,
	}
	m.reminders = append(m.reminders, r)
	added := *r
	m.mu.Unlock()

	until := FormatUntil(target, now)
	m.logger.Info("added reminder %d %q due %s", added.ID, added.Label, target.Format(time.RFC3339))

	return AddResult{
		Reminder:  added,
		Message:   fmt.Sprintf("Reminder set! I'll remind you to '%s' at %s (%s)", label, target.Format("03:04 PM"), until),
		TimeUntil: until,
	}, nil
}

// AddFromText extracts a label and time phrase from a raw command and adds it.
func (m *Manager) AddFromText(command string) (AddResult, error) {
	ext := parser.Extract(command)
	if !ext.Found() {
		return AddResult{}, errors.NewNoTimePhrase()
	}
	if ext.Label == "" {
		return AddResult{}, errors.NewEmptyLabel()
	}
	return m.Add(ext.Label, ext.TimeSpec)
}

// List returns reminders in insertion order. Triggered reminders are
// skipped unless includeTriggered is set.
func (m *Manager) List(includeTriggered bool) []Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		if r.Triggered && !includeTriggered {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// Get returns a copy of the reminder with the given ID.
func (m *Manager) Get(id int64) (Reminder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.reminders {
		if r.ID == id {
			return *r, true
		}
	}
	return Reminder{}, false
}

// Delete removes the reminder with the given ID regardless of its state.
// Unknown IDs are ignored.
func (m *Manager) Delete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.reminders {
		if r.ID == id {
			m.reminders = append(m.reminders[:i], m.reminders[i+1:]...)
			m.logger.Info("deleted reminder %d", id)
			return
		}
	}
}

// Clear removes every reminder. IDs keep counting from where they were.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reminders = nil
	m.logger.Info("cleared all reminders")
}

// PollPopup claims the first triggered, unacknowledged reminder.
// Each reminder is returned by at most one call.
func (m *Manager) PollPopup() (Reminder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.reminders {
		if r.Triggered && !r.Acknowledged {
			r.Acknowledged = true
			return *r, true
		}
	}
	return Reminder{}, false
}

// Sweep marks every pending reminder due at or before now as triggered and
// returns copies of the ones it transitioned, in insertion order.
func (m *Manager) Sweep(now time.Time) []Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fired []Reminder
	for _, r := range m.reminders {
		if r.Triggered || r.TargetTime.After(now) {
			continue
		}
		r.Triggered = true
		r.TriggeredAt = now
		fired = append(fired, *r)
	}
	return fired
}

// Stats counts reminders by state.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{Total: len(m.reminders)}
	for _, r := range m.reminders {
		switch {
		case !r.Triggered:
			s.Pending++
		case !r.Acknowledged:
			s.Triggered++
			s.Unacknowledged++
		default:
			s.Triggered++
		}
	}
	return s
}

// FormatUntil renders the gap between now and target for humans.
func FormatUntil(target, now time.Time) string {
	delta := target.Sub(now)

	if days := int(delta / (24 * time.Hour)); days > 0 {
		return fmt.Sprintf("in %d day(s)", days)
	}

	totalMinutes := int(delta / time.Minute)
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("in %d hour(s) and %d minute(s)", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("in %d hour(s)", hours)
	case minutes > 0:
		return fmt.Sprintf("in %d minute(s)", minutes)
	default:
		return "very soon"
	}
}
