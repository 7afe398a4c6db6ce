package domain

import (
	"math"
	"strings"
)

// DurationUnit is the closed set of units a duration may be expressed in.
type DurationUnit string

const (
	UnitSeconds DurationUnit = "seg"
	UnitMinutes DurationUnit = "min"
	UnitHours   DurationUnit = "hrs"
)

// DurationUnits lists the accepted units in ascending size.
var DurationUnits = []DurationUnit{UnitSeconds, UnitMinutes, UnitHours}

// Seconds returns how many seconds one unit represents. Unknown units count as hours.
func (u DurationUnit) Seconds() int64 {
	switch u {
	case UnitSeconds:
		return 1
	case UnitMinutes:
		return 60
	default:
		return 3600
	}
}

// Valid reports whether u is one of the enumerated units.
func (u DurationUnit) Valid() bool {
	switch u {
	case UnitSeconds, UnitMinutes, UnitHours:
		return true
	}
	return false
}

// ParseDurationUnit matches backend spellings by prefix ("segundos", "Minutos", "hr", ...).
// Anything unrecognized falls back to hours.
func ParseDurationUnit(raw string) DurationUnit {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(s, "seg"):
		return UnitSeconds
	case strings.HasPrefix(s, "min"):
		return UnitMinutes
	case strings.HasPrefix(s, "hr"):
		return UnitHours
	}
	return UnitHours
}

// ToSeconds converts an amount in unit u to seconds. Negative amounts count as zero;
// amounts too large for int64 seconds saturate at math.MaxInt64.
func ToSeconds(amount int64, u DurationUnit) int64 {
	if amount <= 0 {
		return 0
	}
	per := u.Seconds()
	if amount > math.MaxInt64/per {
		return math.MaxInt64
	}
	return amount * per
}

// AddSeconds sums two non-negative second counts, saturating at math.MaxInt64.
func AddSeconds(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
