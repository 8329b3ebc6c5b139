package scheduler

import (
	"context"

	"github.com/notexe/assistant/internal/reminder"
	"github.com/notexe/assistant/internal/speech"
)

// Notifier delivers a fired reminder somewhere. Errors are logged by the
// scheduler and never affect reminder state.
type Notifier interface {
	Notify(ctx context.Context, r reminder.Reminder) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, r reminder.Reminder) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, r reminder.Reminder) error {
	return f(ctx, r)
}

// SpeechNotifier announces reminders out loud.
type SpeechNotifier struct {
	speaker speech.Speaker
}

// NewSpeechNotifier wraps speaker.
func NewSpeechNotifier(speaker speech.Speaker) *SpeechNotifier {
	return &SpeechNotifier{speaker: speaker}
}

// Notify says "Reminder! <label>".
func (n *SpeechNotifier) Notify(ctx context.Context, r reminder.Reminder) error {
	return n.speaker.Speak(ctx, SpokenText(r))
}

// SpokenText is the phrase announced for r.
func SpokenText(r reminder.Reminder) string {
	return "Reminder! " + r.Label
}
