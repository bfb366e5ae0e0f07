package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTime = errors.New("invalid schedule value")

// SlotDuration is the only supported class length.
const SlotDuration = time.Hour

// AllowedStartTimes are the start times offered when booking a class.
var AllowedStartTimes = []string{
	"08:00", "09:00", "10:00",
	"13:00", "14:00", "15:00", "16:00", "17:00", "18:00",
}

// BookableDays are the weekdays offered when booking a class.
var BookableDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// TimeOfDay is an offset from midnight. Classes are weekly templates, so all
// comparisons ignore the calendar date.
type TimeOfDay time.Duration

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}
	return TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ClockOf returns the wall-clock time of t, date discarded.
func ClockOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond()))
}

func (t TimeOfDay) Before(u TimeOfDay) bool { return t < u }

// String formats as zero-padded "HH:MM"; seconds are dropped.
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// EndTime derives the end of a slot from its start: hour+1, same minute.
func EndTime(start string) (string, error) {
	t, err := ParseTimeOfDay(start)
	if err != nil {
		return "", err
	}
	end := time.Duration(t) + SlotDuration
	if end >= 24*time.Hour {
		return "", fmt.Errorf("%w: slot starting %s ends after midnight", ErrInvalidTime, start)
	}
	return TimeOfDay(end).String(), nil
}

func IsAllowedStart(start string) bool {
	for _, s := range AllowedStartTimes {
		if s == start {
			return true
		}
	}
	return false
}
