package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ParseDuration accepts Go duration strings plus d (24h) and w (7d) units,
// e.g. "168h", "7d", "1w2d", "1.5d", "-2w".
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("duration is required")
	}
	if !strings.ContainsAny(raw, "dw") {
		return time.ParseDuration(raw)
	}
	expanded, err := expandDaysAndWeeks(raw)
	if err != nil {
		return 0, err
	}
	return time.ParseDuration(expanded)
}

var hoursPerUnit = map[string]float64{
	"d": 24,
	"w": 7 * 24,
}

// expandDaysAndWeeks rewrites d and w components as hours and leaves the
// rest for time.ParseDuration to validate.
func expandDaysAndWeeks(raw string) (string, error) {
	invalid := fmt.Errorf("invalid duration %q", raw)
	s := raw

	var b strings.Builder
	if s[0] == '+' || s[0] == '-' {
		b.WriteByte(s[0])
		s = s[1:]
	}
	if s == "" {
		return "", invalid
	}

	for s != "" {
		numLen := leadingNumber(s)
		if numLen == 0 {
			return "", invalid
		}
		numStr := s[:numLen]
		s = s[numLen:]

		unitLen := leadingUnit(s)
		if unitLen <= 0 {
			return "", invalid
		}
		unit := s[:unitLen]
		s = s[unitLen:]

		hours, ok := hoursPerUnit[unit]
		if !ok {
			b.WriteString(numStr)
			b.WriteString(unit)
			continue
		}
		num, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return "", invalid
		}
		b.WriteString(strconv.FormatFloat(num*hours, 'f', -1, 64))
		b.WriteByte('h')
	}
	return b.String(), nil
}

// leadingNumber returns the length of a [0-9]+(\.[0-9]*)? prefix.
func leadingNumber(s string) int {
	i := 0
	dot := false
	for i < len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !dot:
			dot = true
		default:
			return i
		}
		i++
	}
	return i
}

// leadingUnit returns the length of the letter prefix (µ included), or -1 on invalid UTF-8.
func leadingUnit(s string) int {
	j := 0
	for j < len(s) {
		r, size := utf8.DecodeRuneInString(s[j:])
		if r == utf8.RuneError && size == 1 {
			return -1
		}
		if r != 'µ' && !unicode.IsLetter(r) {
			break
		}
		j += size
	}
	return j
}
