package syndication

import (
	"strings"
	"time"
)

// RFC 822 zone names, the only ones RSS dates are allowed to use.
var namedZones = map[string]int{
	"UT":  0,
	"UTC": 0,
	"GMT": 0,
	"Z":   0,
	"EST": -5 * 60 * 60,
	"EDT": -4 * 60 * 60,
	"CST": -6 * 60 * 60,
	"CDT": -5 * 60 * 60,
	"MST": -7 * 60 * 60,
	"MDT": -6 * 60 * 60,
	"PST": -8 * 60 * 60,
	"PDT": -7 * 60 * 60,
}

// declaredTime moves instant into the zone written in raw. The parsers hand
// back UTC; the day an item belongs to depends on the offset the feed used.
// When raw names no zone it can read, instant is returned unchanged.
func declaredTime(instant time.Time, raw string) time.Time {
	if loc, ok := declaredZone(raw); ok {
		return instant.In(loc)
	}
	return instant
}

func declaredZone(raw string) (*time.Location, bool) {
	raw = strings.TrimSpace(raw)
	// "... -0500 (EST)"
	if i := strings.LastIndexByte(raw, '('); i > 0 && strings.HasSuffix(raw, ")") {
		raw = strings.TrimSpace(raw[:i])
	}
	if raw == "" {
		return nil, false
	}

	if fields := strings.Fields(raw); len(fields) > 1 {
		last := fields[len(fields)-1]
		if offset, ok := numericOffset(last); ok {
			return time.FixedZone("", offset), true
		}
		name := strings.ToUpper(last)
		if offset, ok := namedZones[name]; ok {
			if offset == 0 {
				return time.UTC, true
			}
			return time.FixedZone(name, offset), true
		}
		raw = last
	}

	// RFC 3339 style: the zone trails the time of day.
	colon := strings.IndexByte(raw, ':')
	if colon < 0 {
		return nil, false
	}
	clock := raw[colon:]
	if strings.HasSuffix(clock, "Z") || strings.HasSuffix(clock, "z") {
		return time.UTC, true
	}
	i := strings.LastIndexAny(clock, "+-")
	if i < 0 {
		return nil, false
	}
	if offset, ok := numericOffset(clock[i:]); ok {
		return time.FixedZone("", offset), true
	}
	return nil, false
}

// numericOffset parses +hh, +hhmm or +hh:mm.
func numericOffset(s string) (int, bool) {
	if len(s) < 3 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	digits := strings.Replace(s[1:], ":", "", 1)
	if len(digits) != 2 && len(digits) != 4 {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	hours := int(digits[0]-'0')*10 + int(digits[1]-'0')
	minutes := 0
	if len(digits) == 4 {
		minutes = int(digits[2]-'0')*10 + int(digits[3]-'0')
	}
	if hours > 14 || minutes > 59 {
		return 0, false
	}
	offset := hours*60*60 + minutes*60
	if s[0] == '-' {
		offset = -offset
	}
	return offset, true
}
