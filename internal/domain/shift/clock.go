package shift

import (
	"math"
	"strconv"
	"strings"
)

// ParseClockTime converts "H:MM", "HH:MM" or "HH:MM:SS" into decimal hours
// since midnight.
func ParseClockTime(raw string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	hour, ok := parseClockField(parts[0], 23)
	if !ok {
		return 0, false
	}
	if len(parts[1]) != 2 {
		return 0, false
	}
	minute, ok := parseClockField(parts[1], 59)
	if !ok {
		return 0, false
	}
	second := 0
	if len(parts) == 3 {
		if len(parts[2]) != 2 {
			return 0, false
		}
		if second, ok = parseClockField(parts[2], 59); !ok {
			return 0, false
		}
	}

	return float64(hour) + float64(minute)/60 + float64(second)/3600, true
}

// ComputeDuration returns hours worked between start and end, wrapping past
// midnight, rounded to two decimals. Unparseable input yields 0.
func ComputeDuration(start string, end string) float64 {
	from, ok := ParseClockTime(start)
	if !ok {
		return 0
	}
	to, ok := ParseClockTime(end)
	if !ok {
		return 0
	}

	hours := to - from
	if hours < 0 {
		hours += 24
	}
	return RoundCents(hours)
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func parseClockField(raw string, maxValue int) (int, bool) {
	if len(raw) < 1 || len(raw) > 2 {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 || value > maxValue {
		return 0, false
	}
	return value, true
}
