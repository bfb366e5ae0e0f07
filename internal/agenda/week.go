package agenda

import "time"

// WeekOf returns the seven dates, Sunday first, of the week holding date.
func WeekOf(date time.Time) []time.Time {
	y, m, d := date.Date()
	sunday := time.Date(y, m, d, 0, 0, 0, 0, date.Location()).AddDate(0, 0, -int(date.Weekday()))

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = sunday.AddDate(0, 0, i)
	}
	return days
}

// ShiftWeek moves date by n whole weeks.
func ShiftWeek(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, 7*n)
}
