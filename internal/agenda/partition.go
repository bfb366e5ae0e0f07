package agenda

import (
	"math"
	"slices"
	"time"

	"cantinho/internal/remote"
	"cantinho/internal/schedule"
)

// Partition splits one day's classes around now. A class is completed when
// its end time of day is strictly before now's; the date part is ignored.
// Both halves are sorted by start time, keeping fetch order on ties.
func Partition(classes []remote.Class, now time.Time) (upcoming, completed []remote.Class) {
	clock := schedule.ClockOf(now)

	upcoming = make([]remote.Class, 0, len(classes))
	completed = make([]remote.Class, 0)
	for _, c := range classes {
		end, err := schedule.ParseTimeOfDay(c.End)
		if err == nil && end.Before(clock) {
			completed = append(completed, c)
		} else {
			upcoming = append(upcoming, c)
		}
	}

	sortByStart(upcoming)
	sortByStart(completed)
	return upcoming, completed
}

func sortByStart(classes []remote.Class) {
	slices.SortStableFunc(classes, func(a, b remote.Class) int {
		sa, sb := startKey(a), startKey(b)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
}

// unparseable start times sort last
func startKey(c remote.Class) int64 {
	t, err := schedule.ParseTimeOfDay(c.Start)
	if err != nil {
		return math.MaxInt64
	}
	return int64(t)
}
