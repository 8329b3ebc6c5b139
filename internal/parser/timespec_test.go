package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/assistant/internal/errors"
)

func TestParseTimeSpec(t *testing.T) {
	tests := []struct {
		phrase string
		want   TimeSpec
	}{
		{"in 5 minutes", TimeSpec{Kind: KindRelative, Amount: 5, Unit: UnitMinute}},
		{"in 1 min", TimeSpec{Kind: KindRelative, Amount: 1, Unit: UnitMinute}},
		{"in 5min", TimeSpec{Kind: KindRelative, Amount: 5, Unit: UnitMinute}},
		{"after 2 hrs", TimeSpec{Kind: KindRelative, Amount: 2, Unit: UnitHour}},
		{"in 3 hours", TimeSpec{Kind: KindRelative, Amount: 3, Unit: UnitHour}},
		{"7:45 pm", TimeSpec{Kind: KindClock, Hour: 7, Minute: 45, Meridiem: MeridiemPM}},
		{"3 PM", TimeSpec{Kind: KindClock, Hour: 3, Meridiem: MeridiemPM}},
		{"7 p.m.", TimeSpec{Kind: KindClock, Hour: 7, Meridiem: MeridiemPM}},
		{"12 am", TimeSpec{Kind: KindClock, Hour: 12, Meridiem: MeridiemAM}},
		{"19:30", TimeSpec{Kind: KindClock, Hour: 19, Minute: 30}},
		{"07:05", TimeSpec{Kind: KindClock, Hour: 7, Minute: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, err := ParseTimeSpec(tt.phrase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeSpec_Invalid(t *testing.T) {
	for _, phrase := range []string{
		"",
		"5",
		"tomorrow",
		"7:75 pm",
		"13 pm",
		"0 am",
		"25:00",
		"12:60",
		"in 9999999 hours",
		"in 99999999999999999999 minutes",
	} {
		t.Run(phrase, func(t *testing.T) {
			_, err := ParseTimeSpec(phrase)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidTimeFormat))
		})
	}
}

func TestHour24(t *testing.T) {
	assert.Equal(t, 0, TimeSpec{Hour: 12, Meridiem: MeridiemAM}.Hour24())
	assert.Equal(t, 12, TimeSpec{Hour: 12, Meridiem: MeridiemPM}.Hour24())
	assert.Equal(t, 15, TimeSpec{Hour: 3, Meridiem: MeridiemPM}.Hour24())
	assert.Equal(t, 9, TimeSpec{Hour: 9, Meridiem: MeridiemAM}.Hour24())
	assert.Equal(t, 21, TimeSpec{Hour: 21}.Hour24())
}

func TestResolve(t *testing.T) {
	at := func(day, hour, min, sec int) time.Time {
		return time.Date(2024, 3, day, hour, min, sec, 0, time.Local)
	}

	tests := []struct {
		name   string
		phrase string
		now    time.Time
		want   time.Time
	}{
		{"relative minutes", "in 5 minutes", at(15, 10, 0, 0), at(15, 10, 5, 0)},
		{"relative hours", "in 2 hours", at(15, 23, 0, 0), at(16, 1, 0, 0)},
		{"relative zero is now", "in 0 minutes", at(15, 10, 0, 0), at(15, 10, 0, 0)},
		{"later today", "3 pm", at(15, 14, 59, 59), at(15, 15, 0, 0)},
		{"already passed rolls to tomorrow", "3 pm", at(15, 21, 0, 0), at(16, 15, 0, 0)},
		{"just passed rolls to tomorrow", "3 pm", at(15, 15, 0, 1), at(16, 15, 0, 0)},
		{"exactly now rolls to tomorrow", "3 pm", at(15, 15, 0, 0), at(16, 15, 0, 0)},
		{"24 hour later today", "23:30", at(15, 21, 0, 0), at(15, 23, 30, 0)},
		{"24 hour passed", "08:00", at(15, 21, 0, 0), at(16, 8, 0, 0)},
		{"midnight", "12 am", at(15, 21, 0, 0), at(16, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePhrase(tt.phrase, tt.now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestResolve_NeverRollsMoreThanOneDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, time.Local)
	got, err := ResolvePhrase("11:58 pm", now)
	require.NoError(t, err)
	assert.Equal(t, 16, got.Day())
	assert.True(t, got.Sub(now) < 24*time.Hour)
}

func TestTimeSpecString(t *testing.T) {
	assert.Equal(t, "in 5 minute(s)", TimeSpec{Kind: KindRelative, Amount: 5, Unit: UnitMinute}.String())
	assert.Equal(t, "19:45", TimeSpec{Kind: KindClock, Hour: 7, Minute: 45, Meridiem: MeridiemPM}.String())
	assert.Equal(t, "", TimeSpec{}.String())
}
