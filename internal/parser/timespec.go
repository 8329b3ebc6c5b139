package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/assistant/internal/errors"
)

// Kind tags the variant held by a TimeSpec.
type Kind int

const (
	KindNone Kind = iota
	KindRelative
	KindClock
)

// Unit is the granularity of a relative offset.
type Unit int

const (
	UnitMinute Unit = iota + 1
	UnitHour
)

// Duration returns the length of one unit.
func (u Unit) Duration() time.Duration {
	if u == UnitHour {
		return time.Hour
	}
	return time.Minute
}

func (u Unit) String() string {
	if u == UnitHour {
		return "hour"
	}
	return "minute"
}

// Meridiem records an explicit am/pm marker on a clock time.
type Meridiem int

const (
	MeridiemNone Meridiem = iota
	MeridiemAM
	MeridiemPM
)

// TimeSpec is the intermediate form between a time phrase and an absolute moment.
// Relative specs use Amount and Unit; clock specs use Hour, Minute and Meridiem.
type TimeSpec struct {
	Kind     Kind
	Amount   int
	Unit     Unit
	Hour     int
	Minute   int
	Meridiem Meridiem
}

// Hour24 converts a clock spec's hour to the 24-hour clock.
func (s TimeSpec) Hour24() int {
	switch s.Meridiem {
	case MeridiemPM:
		if s.Hour != 12 {
			return s.Hour + 12
		}
		return 12
	case MeridiemAM:
		if s.Hour == 12 {
			return 0
		}
		return s.Hour
	default:
		return s.Hour
	}
}

func (s TimeSpec) String() string {
	switch s.Kind {
	case KindRelative:
		return fmt.Sprintf("in %d %s(s)", s.Amount, s.Unit)
	case KindClock:
		return fmt.Sprintf("%02d:%02d", s.Hour24(), s.Minute)
	default:
		return ""
	}
}

var (
	specRelativeRe = regexp.MustCompile(`\b(in|after)\s+(\d+)\s*(minutes?|mins?|hours?|hrs?)\b`)
	specMeridiemRe = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	spec24HourRe   = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// ParseTimeSpec parses a normalized time phrase such as "in 5 minutes",
// "7:45 pm" or "19:30". Phrases that match no pattern, or whose numbers are
// out of range, yield an INVALID_TIME_FORMAT error.
func ParseTimeSpec(phrase string) (TimeSpec, error) {
	ts := strings.ToLower(normalize(phrase))
	if ts == "" {
		return TimeSpec{}, errors.NewInvalidTimeFormat(phrase)
	}

	if m := specRelativeRe.FindStringSubmatch(ts); m != nil {
		amount, err := strconv.Atoi(m[2])
		if err != nil {
			return TimeSpec{}, errors.NewInvalidTimeFormat(phrase)
		}
		unit := UnitMinute
		if strings.HasPrefix(m[3], "h") {
			unit = UnitHour
		}
		if int64(amount) > math.MaxInt64/int64(unit.Duration()) {
			return TimeSpec{}, errors.NewInvalidTimeFormat(phrase)
		}
		return TimeSpec{Kind: KindRelative, Amount: amount, Unit: unit}, nil
	}

	if m := specMeridiemRe.FindStringSubmatch(ts); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return TimeSpec{}, errors.NewInvalidTimeFormat(phrase)
		}
		mer := MeridiemAM
		if m[3] == "pm" {
			mer = MeridiemPM
		}
		return TimeSpec{Kind: KindClock, Hour: hour, Minute: minute, Meridiem: mer}, nil
	}

	if m := spec24HourRe.FindStringSubmatch(ts); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return TimeSpec{}, errors.NewInvalidTimeFormat(phrase)
		}
		return TimeSpec{Kind: KindClock, Hour: hour, Minute: minute}, nil
	}

	return TimeSpec{}, errors.NewInvalidTimeFormat(phrase)
}

// Resolve turns a spec into an absolute moment relative to now.
// Clock times that are not after now move to the next day, never further.
func Resolve(spec TimeSpec, now time.Time) time.Time {
	switch spec.Kind {
	case KindRelative:
		return now.Add(time.Duration(spec.Amount) * spec.Unit.Duration())
	case KindClock:
		target := time.Date(now.Year(), now.Month(), now.Day(), spec.Hour24(), spec.Minute, 0, 0, now.Location())
		if !target.After(now) {
			target = target.AddDate(0, 0, 1)
		}
		return target
	default:
		return time.Time{}
	}
}

// ResolvePhrase parses phrase and resolves it against now.
func ResolvePhrase(phrase string, now time.Time) (time.Time, error) {
	spec, err := ParseTimeSpec(phrase)
	if err != nil {
		return time.Time{}, err
	}
	return Resolve(spec, now), nil
}
