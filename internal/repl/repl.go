package repl

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/notexe/assistant/internal/client"
	"github.com/notexe/assistant/internal/ui"
)

// Remote is the part of the assistant API the REPL drives.
type Remote interface {
	Process(ctx context.Context, command string) (string, error)
	ListReminders(ctx context.Context, includeTriggered bool) ([]client.Reminder, error)
	DeleteReminder(ctx context.Context, id int64) error
	ClearReminders(ctx context.Context) error
	PollPopup(ctx context.Context) (client.Popup, bool, error)
	History(ctx context.Context, limit int) ([]client.HistoryEntry, error)
}

// Options tunes the terminal session.
type Options struct {
	ServerURL    string
	HistoryFile  string
	PollInterval time.Duration
	Colored      bool
}

const historyLimit = 20

type REPL struct {
	remote       Remote
	opts         Options
	rl           *readline.Instance
	formatter    *ui.Formatter
	spinner      *ui.Spinner
	pollInterval time.Duration

	outMu sync.Mutex
	out   io.Writer
}

func NewREPL(remote Remote, opts Options) (*REPL, error) {
	formatter := ui.NewFormatter(opts.Colored)

	rl, err := setupReadline(formatter.FormatPrompt(), opts.HistoryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}

	return &REPL{
		remote:       remote,
		opts:         opts,
		rl:           rl,
		formatter:    formatter,
		spinner:      ui.NewSpinner(rl.Stdout(), opts.Colored),
		pollInterval: interval,
		out:          rl.Stdout(),
	}, nil
}

// Start runs the read loop until /quit or EOF. Fired
// reminders are polled in the background and printed above the prompt.
func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.pollPopups(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	r.print(r.formatter.FormatWelcome(r.opts.ServerURL))

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				r.println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(input)
		if isCommand {
			if command == "/quit" || command == "/exit" || command == "/q" {
				r.println("\nGoodbye!")
				return nil
			}
			if err := r.handleCommand(ctx, command, args); err != nil {
				r.displayError(err)
			}
			continue
		}

		if err := r.handleMessage(ctx, input); err != nil {
			r.displayError(err)
		}
	}
}

func (r *REPL) Stop() {
	r.rl.Close()
}

func (r *REPL) pollPopups(ctx context.Context) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.drainPopups(ctx)
		}
	}
}

// drainPopups shows every reminder that has fired since the last poll.
func (r *REPL) drainPopups(ctx context.Context) int {
	shown := 0
	for {
		popup, ok, err := r.remote.PollPopup(ctx)
		if err != nil || !ok {
			return shown
		}
		r.displayPopup(popup)
		shown++
	}
}

func (r *REPL) handleMessage(ctx context.Context, message string) error {
	r.spinner.Start("Thinking...")
	reply, err := r.remote.Process(ctx, message)
	r.spinner.Stop()
	if err != nil {
		return err
	}

	r.displayResponse(reply)
	return nil
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/reminders", "/r":
		return r.listReminders(ctx, false)

	case "/all":
		return r.listReminders(ctx, true)

	case "/delete", "/d":
		id, err := strconv.ParseInt(args, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("usage: /delete <id>")
		}
		if err := r.remote.DeleteReminder(ctx, id); err != nil {
			return err
		}
		r.displaySystem(fmt.Sprintf("Reminder #%d deleted.", id))
		return nil

	case "/clear", "/c":
		if err := r.remote.ClearReminders(ctx); err != nil {
			return err
		}
		r.displaySystem("All reminders cleared.")
		return nil

	case "/history":
		return r.showHistory(ctx)

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

func (r *REPL) listReminders(ctx context.Context, includeTriggered bool) error {
	list, err := r.remote.ListReminders(ctx, includeTriggered)
	if err != nil {
		return err
	}
	r.displayReminders(list)
	return nil
}

func (r *REPL) showHistory(ctx context.Context) error {
	entries, err := r.remote.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		r.displayInfo("No history yet.")
		return nil
	}
	r.displayHistory(entries)
	return nil
}
