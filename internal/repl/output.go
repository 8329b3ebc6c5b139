package repl

import (
	"fmt"

	"github.com/notexe/assistant/internal/client"
	"github.com/notexe/assistant/internal/ui"
)

// print and println serialize writes between the read loop and the popup poller.
func (r *REPL) print(s string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprint(r.out, s)
}

func (r *REPL) println(lines ...string) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(r.out, l)
	}
}

func (r *REPL) displayResponse(reply string) {
	if r.opts.Colored && ui.LooksLikeMarkdown(reply) {
		reply = ui.RenderMarkdown(reply)
	}
	r.println("", r.formatter.FormatAssistantMessage(reply), "")
}

func (r *REPL) displayPopup(p client.Popup) {
	r.println("", r.formatter.FormatPopup(p.Message, p.Time), "")
}

func (r *REPL) displayReminders(list []client.Reminder) {
	lines := make([]ui.ReminderLine, 0, len(list))
	for _, rem := range list {
		lines = append(lines, ui.ReminderLine{ID: rem.ID, Text: rem.Text, Time: rem.Time})
	}
	r.println(r.formatter.FormatReminders(lines), "")
}

func (r *REPL) displayHistory(entries []client.HistoryEntry) {
	for _, e := range entries {
		r.println(
			r.formatter.FormatStatus(e.CreatedAt.Local().Format("02-Jan 03:04 PM")),
			r.formatter.FormatUserMessage(e.Command),
			r.formatter.FormatAssistantMessage(e.Response),
		)
	}
	r.println("")
}

func (r *REPL) displayError(err error) {
	r.println(r.formatter.FormatError(err), "")
}

func (r *REPL) displayHelp() {
	r.println(r.formatter.FormatHelp())
}

func (r *REPL) displayInfo(msg string) {
	r.println(r.formatter.FormatInfo(msg), "")
}

func (r *REPL) displaySystem(msg string) {
	r.println(r.formatter.FormatSystem(msg), "")
}
