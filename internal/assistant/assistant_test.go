package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/reminder"
)

var fixedNow = time.Date(2024, 3, 15, 14, 5, 0, 0, time.Local)

type stubSearcher struct {
	answer string
	err    error
	query  string
}

func (s *stubSearcher) Answer(_ context.Context, q string) (string, error) {
	s.query = q
	return s.answer, s.err
}

type memRecorder struct {
	entries [][2]string
	err     error
}

func (m *memRecorder) Append(_ context.Context, command, response string) error {
	m.entries = append(m.entries, [2]string{command, response})
	return m.err
}

func newAssistant(t *testing.T, opts ...Option) (*Assistant, *reminder.Manager) {
	t.Helper()
	mgr := reminder.NewManager(reminder.WithClock(func() time.Time { return fixedNow }))
	base := []Option{WithReminders(mgr), WithClock(func() time.Time { return fixedNow })}
	return New(append(base, opts...)...), mgr
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Intent
	}{
		{"bye", IntentExit},
		{"quit", IntentExit},
		{"help", IntentHelp},
		{"what can you do", IntentHelp},
		{"remind me to call mom at 8 pm", IntentReminder},
		{"show my reminders", IntentReminder},
		{"don't forget to buy milk in 2 hours", IntentReminder},
		{"remind me to help mom at 5pm", IntentReminder},
		{"remind me to check the commands at 6pm", IntentReminder},
		{"who invented the telephone", IntentSearch},
		{"tell me about python", IntentSearch},
		{"what is 25 plus 7", IntentMath},
		{"calculate 14 × 6", IntentMath},
		{"10 - 4", IntentMath},
		{"what time is it", IntentTime},
		{"what's today's date", IntentDate},
		{"what day is it", IntentDate},
		{"hello there", IntentGreeting},
		{"this is nothing", IntentUnknown},
		{"something random", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestProcess_Empty(t *testing.T) {
	a, _ := newAssistant(t)
	assert.Equal(t, "I didn't catch that, try again.", a.Process(context.Background(), "   ").Text)
}

func TestProcess_TimeAndDate(t *testing.T) {
	a, _ := newAssistant(t)

	assert.Equal(t, "The current time is 02:05 PM", a.Process(context.Background(), "What time is it?").Text)
	assert.Equal(t, "Today's date is Friday, March 15, 2024", a.Process(context.Background(), "what's the date").Text)
}

func TestProcess_Reminder(t *testing.T) {
	a, mgr := newAssistant(t)

	reply := a.Process(context.Background(), "Remind me to Call Mom at 8 PM")
	assert.Equal(t, IntentReminder, reply.Intent)
	assert.Contains(t, reply.Text, "Reminder set!")
	assert.Contains(t, reply.Text, "'Call Mom'", "label keeps the user's casing")

	list := mgr.List(false)
	require.Len(t, list, 1)
	assert.Equal(t, time.Date(2024, 3, 15, 20, 0, 0, 0, time.Local), list[0].TargetTime)
}

func TestProcess_ReminderMentioningHelp(t *testing.T) {
	a, mgr := newAssistant(t)

	reply := a.Process(context.Background(), "remind me to help mom at 5pm")
	assert.Equal(t, IntentReminder, reply.Intent)
	assert.Contains(t, reply.Text, "'help mom'")
	require.Len(t, mgr.List(false), 1)
}

func TestProcess_ReminderClarifications(t *testing.T) {
	a, _ := newAssistant(t)

	assert.Equal(t, errors.NewNoTimePhrase().Message, a.Process(context.Background(), "remind me").Text)
	assert.Equal(t, errors.NewEmptyLabel().Message, a.Process(context.Background(), "remind me at 5pm").Text)
}

func TestProcess_ListReminders(t *testing.T) {
	a, mgr := newAssistant(t)

	assert.Equal(t, "You have no upcoming reminders.", a.Process(context.Background(), "show my reminders").Text)

	_, err := mgr.Add("stretch", "in 10 minutes")
	require.NoError(t, err)

	reply := a.Process(context.Background(), "list reminders")
	assert.Contains(t, reply.Text, "You have 1 upcoming reminder(s):")
	assert.Contains(t, reply.Text, "- stretch at 02:15 PM 15-Mar")
}

func TestProcess_ReminderUnavailable(t *testing.T) {
	a := New()
	assert.Equal(t, "Reminder system is not initialized.", a.Process(context.Background(), "remind me to x in 5 minutes").Text)
}

func TestProcess_Search(t *testing.T) {
	s := &stubSearcher{answer: "Answer: Alexander Graham Bell"}
	a, _ := newAssistant(t, WithSearcher(s))

	reply := a.Process(context.Background(), "Who invented the telephone?")
	assert.Equal(t, IntentSearch, reply.Intent)
	assert.Equal(t, "Answer: Alexander Graham Bell", reply.Text)
	assert.Equal(t, "Who invented the telephone?", s.query)
}

func TestProcess_SearchErrors(t *testing.T) {
	a, _ := newAssistant(t)
	assert.Contains(t, a.Process(context.Background(), "who is newton").Text, "not configured")

	s := &stubSearcher{err: errors.NewUnavailable("Web search is not configured. Please add a SERPER_API_KEY.")}
	a, _ = newAssistant(t, WithSearcher(s))
	assert.Equal(t, "Web search is not configured. Please add a SERPER_API_KEY.", a.Process(context.Background(), "who is newton").Text)

	s = &stubSearcher{err: fmt.Errorf("timeout")}
	a, _ = newAssistant(t, WithSearcher(s))
	assert.Equal(t, "Web search failed: timeout", a.Process(context.Background(), "who is newton").Text)
}

func TestProcess_Math(t *testing.T) {
	a, _ := newAssistant(t)

	assert.Equal(t, "The result is 32", a.Process(context.Background(), "what is 25 plus 7").Text)
	assert.Equal(t, "The result is 84", a.Process(context.Background(), "calculate 14 × 6").Text)
	assert.Equal(t, "Division by zero is not allowed.", a.Process(context.Background(), "calculate 5 divided by 0").Text)
}

func TestProcess_FixedReplies(t *testing.T) {
	a, _ := newAssistant(t)

	assert.Equal(t, "Goodbye! Take care.", a.Process(context.Background(), "Bye").Text)
	assert.Equal(t, HelpText, a.Process(context.Background(), "help").Text)
	assert.Equal(t, "Hello! I'm your personal assistant. How can I help you?", a.Process(context.Background(), "hey").Text)
	assert.Contains(t, a.Process(context.Background(), "banana").Text, "I'm not sure about that.")
}

func TestProcess_Records(t *testing.T) {
	rec := &memRecorder{}
	a, _ := newAssistant(t, WithRecorder(rec))

	a.Process(context.Background(), "hello")
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "hello", rec.entries[0][0])

	rec.err = fmt.Errorf("disk full")
	reply := a.Process(context.Background(), "bye")
	assert.Equal(t, "Goodbye! Take care.", reply.Text, "recording failures do not change the reply")
}
