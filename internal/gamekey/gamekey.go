// Package gamekey derives the canonical game identifier and broadcast
// time-slot label from raw schedule fields. Both derivations are pure and
// deterministic: identical inputs always produce identical outputs, which
// is what makes repeated loads land on the same warehouse keys.
package gamekey

import "fmt"

// GameID builds the composite game identifier `SSSS_WW_HOME_AWAY`.
// Week is zero-padded to two digits, season to four.
func GameID(season, week int, home, away string) string {
	return fmt.Sprintf("%04d_%02d_%s_%s", season, week, home, away)
}

// Slot is a categorical broadcast-window label.
type Slot string

const (
	SlotThursday      Slot = "Thursday"
	SlotMonday        Slot = "Monday"
	SlotSundayMorning Slot = "Sunday Morning"
	SlotSundayEarly   Slot = "Sunday Early Window"
	SlotSundayLate    Slot = "Sunday Late Window"
	SlotSundayNight   Slot = "Sunday Night"
	SlotUnknown       Slot = "Unknown"
)

// Classify maps a day name and kickoff hour to a Slot. A nil hour or empty
// day yields SlotUnknown. Sunday hours 12, 14, 17 and 18 intentionally fall
// through to SlotUnknown; rows classified Unknown are filtered out before
// aggregation rather than treated as errors.
func Classify(day string, hour *int) Slot {
	if day == "" || hour == nil {
		return SlotUnknown
	}
	switch day {
	case "Thursday":
		return SlotThursday
	case "Monday":
		return SlotMonday
	case "Sunday":
		h := *hour
		switch {
		case h < 12:
			return SlotSundayMorning
		case h == 13:
			return SlotSundayEarly
		case h == 15 || h == 16:
			return SlotSundayLate
		case h >= 19:
			return SlotSundayNight
		}
	}
	return SlotUnknown
}

// Slots returns the six named slots in dim_timeslot key order (1-based).
func Slots() []Slot {
	return []Slot{
		SlotThursday,
		SlotMonday,
		SlotSundayMorning,
		SlotSundayEarly,
		SlotSundayLate,
		SlotSundayNight,
	}
}
