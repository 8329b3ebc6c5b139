// Package parser pulls a reminder label and a time phrase out of free text
// and turns time phrases into absolute moments. Everything here is pure: the
// current time is always passed in by the caller.
package parser

import (
	"regexp"
	"strings"
)

// Extraction is the result of splitting a command into what and when.
// Both fields are empty when no time phrase was found.
type Extraction struct {
	Label    string
	TimeSpec string
}

// Found reports whether a time phrase was recognized.
func (e Extraction) Found() bool {
	return e.TimeSpec != ""
}

// matcher finds a time phrase in normalized text. It returns the phrase and
// the span to cut out of the text, or ok=false.
type matcher struct {
	name  string
	re    *regexp.Regexp
	group int // submatch holding the phrase; 0 means the whole match
	cut   int // submatch whose span is removed from the text
}

func (m matcher) match(text string) (phrase string, start, end int, ok bool) {
	loc := m.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", 0, 0, false
	}
	phrase = text[loc[2*m.group]:loc[2*m.group+1]]
	return phrase, loc[2*m.cut], loc[2*m.cut+1], true
}

// matchers run in priority order; the first hit wins.
var matchers = []matcher{
	{name: "relative", re: regexp.MustCompile(`(?i)\b(?:in|after)\s+\d+\s*(?:minutes?|mins?|hours?|hrs?)\b`)},
	{name: "at", re: regexp.MustCompile(`(?i)\bat\s+(\d{1,2}(?::\d{2})?(?:\s*(?:am|pm))?)\b`), group: 1},
	{name: "meridiem", re: regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`), group: 1, cut: 1},
	{name: "24h", re: regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`), group: 1, cut: 1},
}

var (
	meridiemDotsRe = regexp.MustCompile(`(?i)(\d\s*)([ap])\.\s?m\.?`)
	spacesRe       = regexp.MustCompile(`\s+`)
	fallbackToRe   = regexp.MustCompile(`(?i)to (.+)`)

	boilerplate = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^remind me to\b\s*`),
		regexp.MustCompile(`(?i)^remind me\b\s*`),
		regexp.MustCompile(`(?i)^set (?:a )?reminder\b\s*(?:for\b\s*)?(?:to\b\s*)?`),
		regexp.MustCompile(`(?i)^reminder\b\s*(?:to\b\s*)?`),
		regexp.MustCompile(`(?i)^(?:don'?t forget to|alert me to|notify me to)\b\s*`),
		regexp.MustCompile(`(?i)\s*\bat$`),
	}
)

// normalize folds "p.m."/"a. m." variants into "pm"/"am" and collapses
// whitespace. Letter case is preserved.
func normalize(s string) string {
	s = meridiemDotsRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := meridiemDotsRe.FindStringSubmatch(m)
		return sub[1] + strings.ToLower(sub[2]) + "m"
	})
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// Extract splits a reminder command into its label and time phrase.
//
//	"remind me to call John at 7:45 p.m." -> ("call John", "7:45 pm")
//	"in 20 minutes remind me to drink water" -> ("drink water", "in 20 minutes")
func Extract(command string) Extraction {
	text := normalize(command)

	var (
		phrase     string
		start, end int
		found      bool
	)
	for _, m := range matchers {
		if phrase, start, end, found = m.match(text); found {
			break
		}
	}
	if !found {
		return Extraction{}
	}

	phrase = strings.ToLower(strings.TrimSpace(phrase))
	rest := normalize(text[:start] + " " + text[end:])

	label := rest
	for _, re := range boilerplate {
		label = strings.TrimSpace(re.ReplaceAllString(label, ""))
	}

	if label == "" {
		if m := fallbackToRe.FindStringSubmatch(text); m != nil {
			label = strings.TrimSpace(m[1])
		}
	}

	label = strings.Trim(label, " ,.-")

	return Extraction{Label: label, TimeSpec: phrase}
}
