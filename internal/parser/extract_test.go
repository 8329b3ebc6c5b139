package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLabel string
		wantTime  string
	}{
		{
			name:      "remind me to with at time",
			input:     "remind me to call John at 7:45 pm",
			wantLabel: "call John",
			wantTime:  "7:45 pm",
		},
		{
			name:      "dotted meridiem",
			input:     "remind me to call John at 7:45 p.m.",
			wantLabel: "call John",
			wantTime:  "7:45 pm",
		},
		{
			name:      "time before label",
			input:     "set a reminder at 7:45 pm to call John",
			wantLabel: "call John",
			wantTime:  "7:45 pm",
		},
		{
			name:      "relative phrase first",
			input:     "in 10 minutes remind me to drink water",
			wantLabel: "drink water",
			wantTime:  "in 10 minutes",
		},
		{
			name:      "after treated as relative",
			input:     "set reminder after 1 hour to take a break",
			wantLabel: "take a break",
			wantTime:  "after 1 hour",
		},
		{
			name:      "case preserved and trailing punctuation trimmed",
			input:     "Remind me to Buy Milk at 5PM.",
			wantLabel: "Buy Milk",
			wantTime:  "5pm",
		},
		{
			name:      "bare meridiem without at",
			input:     "call mom 8 pm",
			wantLabel: "call mom",
			wantTime:  "8 pm",
		},
		{
			name:      "24 hour clock",
			input:     "set a reminder for 15:30 to submit report",
			wantLabel: "submit report",
			wantTime:  "15:30",
		},
		{
			name:      "extra whitespace collapsed",
			input:     "  remind me   to stretch   in 5   mins ",
			wantLabel: "stretch",
			wantTime:  "in 5 mins",
		},
		{
			name:      "relative wins over absolute",
			input:     "remind me at 5 pm to stretch in 10 minutes",
			wantLabel: "at 5 pm to stretch",
			wantTime:  "in 10 minutes",
		},
		{
			name:      "no label left",
			input:     "remind me at 5pm",
			wantLabel: "",
			wantTime:  "5pm",
		},
		{
			name:      "empty label falls back to text after first to",
			input:     "remind me to at 5pm",
			wantLabel: "at 5pm",
			wantTime:  "5pm",
		},
		{
			name:      "no time phrase",
			input:     "remind me",
			wantLabel: "",
			wantTime:  "",
		},
		{
			name:      "at without meridiem still captured",
			input:     "remind me to leave at 5",
			wantLabel: "leave",
			wantTime:  "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, tt.wantTime, got.TimeSpec)
			assert.Equal(t, tt.wantTime != "", got.Found())
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "call at 7 pm", normalize("call   at 7 P.M."))
	assert.Equal(t, "wake at 6am", normalize("wake at 6a.m."))
	assert.Equal(t, "wake at 6 am", normalize("wake at 6 a. m."))
}
