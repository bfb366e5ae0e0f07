package schedule_test

import (
	"testing"
	"time"

	"cantinho/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	// 2026-10-11 is a Sunday
	sunday := time.Date(2026, time.October, 11, 10, 0, 0, 0, time.UTC)

	expected := []schedule.DayOfWeek{
		schedule.Sunday,
		schedule.Monday,
		schedule.Tuesday,
		schedule.Wednesday,
		schedule.Thursday,
		schedule.Friday,
		schedule.Saturday,
	}

	for i, want := range expected {
		date := sunday.AddDate(0, 0, i)
		assert.Equal(t, want, schedule.DayOf(date), "weekday index %d", date.Weekday())
		assert.Equal(t, want, schedule.FromWeekday(time.Weekday(i)))
	}

	assert.Equal(t, "DOMINGO", string(schedule.Sunday))
	assert.Equal(t, "TERCA", string(schedule.Tuesday))
	assert.Equal(t, "SABADO", string(schedule.Saturday))
}

func TestDayOf_UsesLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	// Monday 01:00 UTC is still Sunday evening in Sao Paulo
	instant := time.Date(2026, time.October, 12, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, schedule.Monday, schedule.DayOf(instant))
	assert.Equal(t, schedule.Sunday, schedule.DayOf(instant.In(saoPaulo)))
}

func TestParseDay(t *testing.T) {
	d, err := schedule.ParseDay("QUARTA")
	require.NoError(t, err)
	assert.Equal(t, schedule.Wednesday, d)

	_, err = schedule.ParseDay("WEDNESDAY")
	assert.ErrorIs(t, err, schedule.ErrInvalidTime)
}

func TestEndTime(t *testing.T) {
	tests := []struct {
		start string
		want  string
	}{
		{"09:00", "10:00"},
		{"18:00", "19:00"},
		{"08:00", "09:00"},
		{"08:30", "09:30"},
		{"22:15", "23:15"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got, err := schedule.EndTime(tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndTime_AllAllowedStarts(t *testing.T) {
	for _, start := range schedule.AllowedStartTimes {
		end, err := schedule.EndTime(start)
		require.NoError(t, err)

		s, _ := schedule.ParseTimeOfDay(start)
		e, _ := schedule.ParseTimeOfDay(end)
		assert.Equal(t, time.Hour, time.Duration(e-s), start)
	}
}

func TestEndTime_Invalid(t *testing.T) {
	for _, start := range []string{"", "9:00", "24:00", "12:60", "23:00", "ab:cd"} {
		_, err := schedule.EndTime(start)
		assert.ErrorIs(t, err, schedule.ErrInvalidTime, start)
	}
}

func TestParseTimeOfDay_RejectsSignsAndSpaces(t *testing.T) {
	for _, s := range []string{"+9:00", "-1:00", " 9:00", "09:+5", "09: 5", "0x:00"} {
		_, err := schedule.ParseTimeOfDay(s)
		assert.ErrorIs(t, err, schedule.ErrInvalidTime, s)
	}

	tod, err := schedule.ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", tod.String())
}

func TestClockOf_IgnoresDate(t *testing.T) {
	a := time.Date(2020, time.January, 1, 12, 30, 0, 0, time.UTC)
	b := time.Date(2031, time.July, 9, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, schedule.ClockOf(a), schedule.ClockOf(b))
	assert.Equal(t, "12:30", schedule.ClockOf(a).String())
}

func TestIsAllowedStart(t *testing.T) {
	assert.True(t, schedule.IsAllowedStart("13:00"))
	assert.False(t, schedule.IsAllowedStart("12:00"))
	assert.False(t, schedule.IsAllowedStart("13:30"))
}
