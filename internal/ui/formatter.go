package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Bright cyan
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")) // Soft green

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple

	PopupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("215")). // Orange
			Padding(0, 2)

	PopupTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")).
			Bold(true)
)

// Formatter renders assistant output for the terminal. With colored off every
// method returns plain text.
type Formatter struct {
	colored bool
	name    string
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored, name: "Assistant"}
}

func (f *Formatter) FormatUserMessage(msg string) string {
	prefix := "You: "
	if f.colored {
		prefix = UserStyle.Render("You: ")
	}
	return prefix + msg
}

func (f *Formatter) FormatAssistantMessage(msg string) string {
	prefix := f.name + ": "
	if f.colored {
		prefix = AssistantStyle.Render(f.name + ": ")
	}
	return prefix + msg
}

func (f *Formatter) FormatError(err error) string {
	prefix := "Error: "
	if f.colored {
		prefix = ErrorStyle.Render("Error: ")
	}
	return prefix + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	if f.colored {
		return InfoStyle.Render(info)
	}
	return info
}

func (f *Formatter) FormatSystem(msg string) string {
	if f.colored {
		return SystemStyle.Render(msg)
	}
	return msg
}

func (f *Formatter) FormatStatus(msg string) string {
	if f.colored {
		return StatusStyle.Render(msg)
	}
	return msg
}

// ReminderLine is what the formatter needs from a reminder.
type ReminderLine struct {
	ID   int64
	Text string
	Time string
}

// FormatReminders renders a reminder list, one per line.
func (f *Formatter) FormatReminders(reminders []ReminderLine) string {
	if len(reminders) == 0 {
		return f.FormatInfo("No reminders.")
	}

	lines := make([]string, 0, len(reminders))
	for _, r := range reminders {
		id := fmt.Sprintf("#%d", r.ID)
		if f.colored {
			lines = append(lines, "  "+AccentStyle.Render(id)+" "+r.Text+" "+DimStyle.Render("@ "+r.Time))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s @ %s", id, r.Text, r.Time))
	}
	return strings.Join(lines, "\n")
}

// FormatPopup renders a fired reminder as a boxed notice.
func (f *Formatter) FormatPopup(label, at string) string {
	if f.colored {
		body := PopupTitleStyle.Render("⏰ Reminder!") + "\n" + label + "\n" + DimStyle.Render(at)
		return PopupStyle.Render(body)
	}
	return fmt.Sprintf("*** Reminder! %s (%s) ***", label, at)
}

func (f *Formatter) FormatWelcome(serverURL string) string {
	if f.colored {
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
		labelStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
		valueStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))
		subtitleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

		body := strings.Join([]string{
			titleStyle.Render("Assistant"),
			labelStyle.Render("Server: ") + valueStyle.Render(serverURL),
			"",
			subtitleStyle.Render("Type /help for commands"),
		}, "\n")

		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(41)

		return "\n" + box.Render(body) + "\n\n"
	}

	lines := []string{
		"",
		"Assistant",
		fmt.Sprintf("Server: %s", serverURL),
		"Type /help for commands",
		"",
	}
	return strings.Join(lines, "\n") + "\n"
}

const helpMarkdown = `## Commands

| command | |
|---|---|
| /help | Show this help |
| /reminders | List pending reminders |
| /all | List every reminder, fired ones too |
| /delete <id> | Delete a reminder |
| /clear | Delete all reminders |
| /history | Show recent commands |
| /quit | Exit |

## Things to ask

- *remind me to call mom in 10 minutes*
- *set a reminder to stretch at 4:30 pm*
- *what time is it*, *what's the date*
- *calculate 14 × 6*
- *search for the tallest building*

Fired reminders pop up while you type.
`

func (f *Formatter) FormatHelp() string {
	if f.colored {
		return RenderMarkdown(helpMarkdown)
	}
	return helpMarkdown
}

// FormatPrompt returns a styled input prompt
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("you") + arrowStyle.Render(" > ")
	}
	return "you > "
}
