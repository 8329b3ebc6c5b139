package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/notexe/assistant/internal/client"
	"github.com/notexe/assistant/internal/config"
	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/repl"
	"github.com/notexe/assistant/internal/ui"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "assistant",
		Usage:   "Terminal client for the assistant server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Value: cfg.Client.ServerURL, Usage: "Assistant server URL"},
			&cli.IntFlag{Name: "timeout", Value: cfg.Client.Timeout, Usage: "Request timeout in seconds"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Commands: []*cli.Command{
			chatCmd(cfg),
			askCmd(),
			remindCmd(),
			listCmd(),
			deleteCmd(),
			clearCmd(),
			popupCmd(),
			historyCmd(),
			statusCmd(),
		},
		Action: func(c *cli.Context) error {
			return runChat(c, cfg)
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func chatCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Start an interactive session (default)",
		Action: func(c *cli.Context) error {
			return runChat(c, cfg)
		},
	}
}

func runChat(c *cli.Context, cfg *config.Config) error {
	r, err := repl.NewREPL(clientFrom(c), repl.Options{
		ServerURL:    c.String("server"),
		HistoryFile:  cfg.Client.HistoryFile,
		PollInterval: time.Duration(cfg.Client.PollInterval) * time.Second,
		Colored:      !c.Bool("no-color"),
	})
	if err != nil {
		return outputError(err)
	}
	return r.Start(c.Context)
}

func askCmd() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send one command to the assistant",
		ArgsUsage: "<command...>",
		Action: func(c *cli.Context) error {
			command := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(command) == "" {
				return outputError(errors.NewInvalidRequest("command is required"))
			}
			reply, err := clientFrom(c).Process(c.Context, command)
			if err != nil {
				return outputError(err)
			}
			fmt.Fprintln(c.App.Writer, reply)
			return nil
		},
	}
}

func remindCmd() *cli.Command {
	return &cli.Command{
		Name:      "remind",
		Usage:     "Add a reminder from a sentence, or from --label and --time",
		ArgsUsage: "[sentence...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Usage: "What to be reminded about"},
			&cli.StringFlag{Name: "time", Aliases: []string{"t"}, Usage: "When, e.g. '5pm', '17:30' or 'in 10 minutes'"},
		},
		Action: func(c *cli.Context) error {
			var (
				res *client.AddResult
				err error
			)
			if c.String("time") != "" {
				res, err = clientFrom(c).AddReminder(c.Context, c.String("label"), c.String("time"))
			} else {
				sentence := strings.Join(c.Args().Slice(), " ")
				if strings.TrimSpace(sentence) == "" {
					return outputError(errors.NewInvalidRequest("give a sentence or --label and --time"))
				}
				res, err = clientFrom(c).AddFromText(c.Context, sentence)
			}
			if err != nil {
				return outputError(err)
			}
			fmt.Fprintf(c.App.Writer, "#%d %s\n", res.Reminder.ID, res.Message)
			return nil
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List reminders",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Include reminders that already fired"},
		},
		Action: func(c *cli.Context) error {
			list, err := clientFrom(c).ListReminders(c.Context, c.Bool("all"))
			if err != nil {
				return outputError(err)
			}
			lines := make([]ui.ReminderLine, 0, len(list))
			for _, r := range list {
				lines = append(lines, ui.ReminderLine{ID: r.ID, Text: r.Text, Time: r.Time})
			}
			fmt.Fprintln(c.App.Writer, formatterFrom(c).FormatReminders(lines))
			return nil
		},
	}
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a reminder by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := strconv.ParseInt(c.Args().First(), 10, 64)
			if err != nil {
				return outputError(errors.NewInvalidRequest("reminder id must be an integer"))
			}
			if err := clientFrom(c).DeleteReminder(c.Context, id); err != nil {
				return outputError(err)
			}
			fmt.Fprintf(c.App.Writer, "Reminder #%d deleted.\n", id)
			return nil
		},
	}
}

func clearCmd() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all reminders",
		Action: func(c *cli.Context) error {
			if err := clientFrom(c).ClearReminders(c.Context); err != nil {
				return outputError(err)
			}
			fmt.Fprintln(c.App.Writer, "All reminders cleared.")
			return nil
		},
	}
}

func popupCmd() *cli.Command {
	return &cli.Command{
		Name:  "popup",
		Usage: "Show reminders that fired and have not been seen yet",
		Action: func(c *cli.Context) error {
			cl := clientFrom(c)
			f := formatterFrom(c)
			shown := 0
			for {
				p, ok, err := cl.PollPopup(c.Context)
				if err != nil {
					return outputError(err)
				}
				if !ok {
					break
				}
				fmt.Fprintln(c.App.Writer, f.FormatPopup(p.Message, p.Time))
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(c.App.Writer, "Nothing to show.")
			}
			return nil
		},
	}
}

func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show or clear the command history",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Number of entries"},
			&cli.BoolFlag{Name: "clear", Usage: "Delete the history"},
		},
		Action: func(c *cli.Context) error {
			cl := clientFrom(c)
			if c.Bool("clear") {
				if err := cl.ClearHistory(c.Context); err != nil {
					return outputError(err)
				}
				fmt.Fprintln(c.App.Writer, "History cleared.")
				return nil
			}

			entries, err := cl.History(c.Context, c.Int("limit"))
			if err != nil {
				return outputError(err)
			}
			for _, e := range entries {
				fmt.Fprintf(c.App.Writer, "[%s] %s\n  %s\n", e.CreatedAt.Local().Format("02-Jan 03:04 PM"), e.Command, e.Response)
			}
			return nil
		},
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show server health",
		Action: func(c *cli.Context) error {
			h, err := clientFrom(c).Health(c.Context)
			if err != nil {
				return outputError(err)
			}
			fmt.Fprintf(c.App.Writer, "server: %s\nactive reminders: %d\ntts: %t\nspeech input: %t\n",
				h.Server, h.RemindersActive, h.TTS, h.SpeechInput)
			return nil
		},
	}
}

// clientFrom builds a client from the global flags.
func clientFrom(c *cli.Context) *client.Client {
	return client.New(c.String("server"), time.Duration(c.Int("timeout"))*time.Second)
}

func formatterFrom(c *cli.Context) *ui.Formatter {
	return ui.NewFormatter(!c.Bool("no-color"))
}

// outputError formats error for CLI.
func outputError(err error) error {
	if aErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
