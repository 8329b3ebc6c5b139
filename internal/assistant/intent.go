package assistant

import (
	"regexp"
	"strings"
)

// Intent is what a command is asking for.
type Intent string

const (
	IntentExit     Intent = "exit"
	IntentHelp     Intent = "help"
	IntentReminder Intent = "reminder"
	IntentSearch   Intent = "search"
	IntentMath     Intent = "math"
	IntentTime     Intent = "time"
	IntentDate     Intent = "date"
	IntentGreeting Intent = "greeting"
	IntentUnknown  Intent = "unknown"
)

func wordsRe(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

var (
	exitWords = map[string]bool{"bye": true, "exit": true, "quit": true, "close": true, "goodbye": true}

	helpRe     = wordsRe("help", "what can you do", "commands", "how do i use you")
	reminderRe = regexp.MustCompile(`\b(?:remind|reminder|reminders|don'?t forget|alert me|notify me)\b`)
	searchRe   = wordsRe("who", "what", "when", "where", "why", "how", "tell me about", "search", "find", "look up", "explain", "define", "information about")
	mathWordRe = wordsRe("calculate", "plus", "minus", "divide", "divided", "multiply", "multiplied", "times", "add", "subtract", "over", "into", "x")
	mathSymRe  = regexp.MustCompile(`[+\-*/×÷]`)
	digitRe    = regexp.MustCompile(`\d`)
	timeRe     = wordsRe("time")
	dateRe     = wordsRe("date", "day", "today")
	listRe     = wordsRe("list", "show", "what are my", "upcoming")
	greetingRe = wordsRe("hi", "hello", "hey", "good morning", "good afternoon", "good evening")
)

// Classify routes a lowercased, trimmed command. Reminder intent is checked
// before help and search so "remind me to help mom at 5pm" is a reminder and
// "remind me what to buy at 5pm" is not sent to the web.
func Classify(c string) Intent {
	switch {
	case exitWords[c]:
		return IntentExit
	case reminderRe.MatchString(c):
		return IntentReminder
	case helpRe.MatchString(c):
		return IntentHelp
	case isSearch(c):
		return IntentSearch
	case isMath(c):
		return IntentMath
	case isTime(c):
		return IntentTime
	case dateRe.MatchString(c):
		return IntentDate
	case greetingRe.MatchString(c):
		return IntentGreeting
	default:
		return IntentUnknown
	}
}

func isMath(c string) bool {
	if !digitRe.MatchString(c) {
		return false
	}
	return mathWordRe.MatchString(c) || mathSymRe.MatchString(c)
}

func isTime(c string) bool {
	return timeRe.MatchString(c)
}

func isSearch(c string) bool {
	if isMath(c) || isTime(c) || dateRe.MatchString(c) {
		return false
	}
	return searchRe.MatchString(c)
}
