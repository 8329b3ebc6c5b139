// Command mcp-reminder provides an MCP server for reminder management.
//
// Reminders live in memory for the lifetime of the process. A background
// sweep fires them and announces each one through the configured sinks
// (local TTS, a remote assistant's /speak endpoint, Telegram). Fired
// reminders can be picked up with the poll_popup tool.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	ASSISTANT_CONFIG    Path to config file (default: ~/.assistant/config.yaml)
//	TELEGRAM_BOT_TOKEN  With TELEGRAM_CHAT_ID, forwards fired reminders to Telegram
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/assistant/internal/config"
	"github.com/notexe/assistant/internal/logging"
	"github.com/notexe/assistant/internal/reminder"
	"github.com/notexe/assistant/internal/scheduler"
	"github.com/notexe/assistant/internal/speech"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	configPath := os.Getenv("ASSISTANT_CONFIG")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.SetLevel(logging.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := reminder.NewManager(reminder.WithLogger(logging.NewComponentLogger("reminder")))
	sched := scheduler.New(manager, notifierOptions(cfg)...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sched.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Scheduler error: %v\n", err)
		}
	}()

	s := reminder.NewServer(manager)
	serveErr := server.ServeStdio(s.MCPServer())

	stop()
	<-done

	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}

func notifierOptions(cfg *config.Config) []scheduler.Option {
	logger := logging.NewComponentLogger("scheduler")

	opts := []scheduler.Option{
		scheduler.WithInterval(cfg.Reminder.Interval()),
		scheduler.WithDeliveryTimeout(cfg.Reminder.Timeout()),
		scheduler.WithLogger(logger),
	}

	if cfg.Reminder.Speak {
		if cfg.Speech.RemoteURL != "" {
			opts = append(opts, scheduler.WithNotifier("speech", scheduler.NewSpeechNotifier(speech.NewHTTPSink(cfg.Speech.RemoteURL))))
		} else {
			engine := speech.NewEngine(speech.EngineConfig{
				TTSCommand:    speech.SplitCommand(cfg.Speech.TTSCommand),
				ListenTimeout: time.Duration(cfg.Speech.ListenTimeout) * time.Second,
			}, logging.NewComponentLogger("speech"))
			if engine.TTSAvailable() {
				opts = append(opts, scheduler.WithNotifier("speech", scheduler.NewSpeechNotifier(engine)))
			}
		}
	}

	if cfg.Telegram.Enabled() {
		opts = append(opts, scheduler.WithNotifier("telegram", scheduler.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)))
	}

	return opts
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - One-shot reminders via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    ASSISTANT_CONFIG    Path to config file
                        Default: ~/.assistant/config.yaml
    TELEGRAM_BOT_TOKEN  Telegram bot token (with TELEGRAM_CHAT_ID)

TOOLS:
    add_reminder       Add a reminder from a label and a time phrase
    remind_from_text   Add a reminder from a sentence ("remind me to ... at 7 pm")
    list_reminders     List reminders (optionally including fired ones)
    delete_reminder    Delete a reminder by ID
    clear_reminders    Delete every reminder
    poll_popup         Claim the next fired, unseen reminder

CONFIGURATION:
    Add to your MCP client config:
    {
      "mcpServers": {
        "reminder": {
          "command": "/path/to/mcp-reminder",
          "args": []
        }
      }
    }`)
}
