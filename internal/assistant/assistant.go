// Package assistant routes natural-language commands to the time, date,
// math, search and reminder handlers.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/logging"
	"github.com/notexe/assistant/internal/parser"
	"github.com/notexe/assistant/internal/reminder"
)

// Reminders is the part of the reminder manager the router needs.
type Reminders interface {
	AddFromText(command string) (reminder.AddResult, error)
	List(includeTriggered bool) []reminder.Reminder
}

// Searcher answers general questions.
type Searcher interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Recorder keeps the command log.
type Recorder interface {
	Append(ctx context.Context, command, response string) error
}

// Reply is the router's answer to one command.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"response"`
}

// Assistant is the command router.
type Assistant struct {
	reminders Reminders
	searcher  Searcher
	recorder  Recorder
	now       func() time.Time
	logger    logging.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

func WithReminders(r Reminders) Option { return func(a *Assistant) { a.reminders = r } }
func WithSearcher(s Searcher) Option   { return func(a *Assistant) { a.searcher = s } }
func WithRecorder(r Recorder) Option   { return func(a *Assistant) { a.recorder = r } }
func WithLogger(l logging.Logger) Option {
	return func(a *Assistant) { a.logger = logging.OrNop(l) }
}
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Assistant. Handlers without a collaborator answer that
// the feature is unavailable.
func New(opts ...Option) *Assistant {
	a := &Assistant{
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process routes command and returns the reply. The exchange is recorded
// when a Recorder is configured; recording failures are only logged.
func (a *Assistant) Process(ctx context.Context, command string) Reply {
	raw := strings.TrimSpace(command)
	if raw == "" {
		return Reply{Intent: IntentUnknown, Text: "I didn't catch that, try again."}
	}

	intent := Classify(strings.ToLower(raw))
	reply := Reply{Intent: intent, Text: a.handle(ctx, intent, raw)}
	a.logger.Debug("%s -> %s", intent, raw)

	if a.recorder != nil {
		if err := a.recorder.Append(ctx, raw, reply.Text); err != nil {
			a.logger.Warn("failed to record history: %v", err)
		}
	}
	return reply
}

func (a *Assistant) handle(ctx context.Context, intent Intent, raw string) string {
	switch intent {
	case IntentExit:
		return "Goodbye! Take care."
	case IntentHelp:
		return HelpText
	case IntentReminder:
		return a.handleReminder(raw)
	case IntentSearch:
		return a.handleSearch(ctx, raw)
	case IntentMath:
		return handleMath(raw)
	case IntentTime:
		return a.now().Format("The current time is 03:04 PM")
	case IntentDate:
		return a.now().Format("Today's date is Monday, January 02, 2006")
	case IntentGreeting:
		return "Hello! I'm your personal assistant. How can I help you?"
	default:
		return "I'm not sure about that. Try asking me about time, date, math, web search, or reminders."
	}
}

func (a *Assistant) handleReminder(raw string) string {
	if a.reminders == nil {
		return "Reminder system is not initialized."
	}

	if listRe.MatchString(strings.ToLower(raw)) && !parser.Extract(raw).Found() {
		return a.listReminders()
	}

	result, err := a.reminders.AddFromText(raw)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return errors.MessageOf(err)
		}
		a.logger.Error("add reminder failed: %v", err)
		return "Sorry, I couldn't set that reminder."
	}
	return result.Message
}

// listReminders answers "show my reminders". Commands that also carry a
// time phrase are treated as creation instead.
func (a *Assistant) listReminders() string {
	pending := a.reminders.List(false)
	if len(pending) == 0 {
		return "You have no upcoming reminders."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d upcoming reminder(s):", len(pending))
	for _, r := range pending {
		fmt.Fprintf(&b, "\n- %s at %s", r.Label, r.DisplayTime())
	}
	return b.String()
}

func (a *Assistant) handleSearch(ctx context.Context, raw string) string {
	if a.searcher == nil {
		return "Web search is not configured. Please add a SERPER_API_KEY."
	}
	answer, err := a.searcher.Answer(ctx, raw)
	if err != nil {
		if errors.Is(err, errors.ErrUnavailable) {
			return errors.MessageOf(err)
		}
		a.logger.Warn("search failed: %v", err)
		return fmt.Sprintf("Web search failed: %v", err)
	}
	return answer
}

func handleMath(raw string) string {
	expr, ok := ExtractExpression(raw)
	if !ok {
		return "I couldn't find a valid math expression. Try something like: 'calculate 14 × 6'."
	}
	v, err := Evaluate(expr)
	if err == errDivisionByZero {
		return "Division by zero is not allowed."
	}
	if err != nil {
		return "I couldn't evaluate that expression. Please check the numbers and operators."
	}
	return "The result is " + FormatNumber(v)
}

// HelpText lists what the assistant understands.
const HelpText = `Here's what I can do:
- Time: 'what time is it'
- Date: 'what's today's date' or 'what day is it'
- Math: 'calculate 14 × 6', 'what is 25 plus 7'
- Web search: 'who invented the telephone', 'tell me about Python'
- Reminders: 'remind me to call mom at 8 PM', 'in 10 minutes remind me to drink water'
- Reminder list: 'show my reminders'`
