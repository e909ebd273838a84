package medication

import (
	"strings"
	"time"
)

// TimeOfDay is one slot in a daily schedule.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At anchors the slot to a calendar date in the given location.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// ParseSchedule splits a schedule string into clock slots. Entries are
// comma-separated HH:MM times; empty and malformed entries are dropped so one
// bad token cannot invalidate the rest of the schedule.
func ParseSchedule(schedule string) []TimeOfDay {
	var slots []TimeOfDay
	for _, entry := range strings.Split(schedule, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parsed, err := time.Parse("15:04", entry)
		if err != nil {
			continue
		}
		slots = append(slots, TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()})
	}
	return slots
}
