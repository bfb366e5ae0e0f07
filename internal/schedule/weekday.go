// Package schedule holds the calendar vocabulary shared by the agenda, the
// class screens and the REST client: the recurring weekday enumeration and the
// fixed one-hour time slots.
package schedule

import (
	"fmt"
	"time"
)

// DayOfWeek is a recurring weekday, not a calendar date. Values are the
// literals the backend expects.
type DayOfWeek string

const (
	Sunday    DayOfWeek = "DOMINGO"
	Monday    DayOfWeek = "SEGUNDA"
	Tuesday   DayOfWeek = "TERCA"
	Wednesday DayOfWeek = "QUARTA"
	Thursday  DayOfWeek = "QUINTA"
	Friday    DayOfWeek = "SEXTA"
	Saturday  DayOfWeek = "SABADO"
)

// indexed by time.Weekday (0=Sunday..6=Saturday)
var weekdays = [7]DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Days returns the enumeration in time.Weekday order.
func Days() []DayOfWeek {
	out := make([]DayOfWeek, len(weekdays))
	copy(out, weekdays[:])
	return out
}

// FromWeekday maps a time.Weekday to its enumeration value.
func FromWeekday(d time.Weekday) DayOfWeek {
	return weekdays[d]
}

// DayOf returns the weekday of t in t's own location.
func DayOf(t time.Time) DayOfWeek {
	return FromWeekday(t.Weekday())
}

func (d DayOfWeek) Valid() bool {
	for _, w := range weekdays {
		if w == d {
			return true
		}
	}
	return false
}

func ParseDay(s string) (DayOfWeek, error) {
	d := DayOfWeek(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: unknown weekday %q", ErrInvalidTime, s)
	}
	return d, nil
}
