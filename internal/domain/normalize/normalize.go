// Package normalize cleans live keystrokes into the canonical strings the
// scoring engine reads: decimal meters, decimal seconds or "m:ss.hh".
package normalize

import (
	"fmt"
	"math"
	"strings"
)

// Input length limits of the entry fields.
const (
	maxClockLength = 8 // "12:34.56"
	maxMarkLength  = 6 // "123.45"
)

const secondsDigits = 2

// MaxLength returns the longest accepted input for an entry field.
func MaxLength(clock bool) int {
	if clock {
		return maxClockLength
	}
	return maxMarkLength
}

// Normalize rewrites raw keystrokes for an event. clock marks events entered
// as minutes:seconds. The result holds at most one '.' and, for clock
// events, at most one ':'.
func Normalize(raw string, clock bool) string {
	s := strings.ReplaceAll(raw, ",", ".")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		case r == ':' && clock:
			return r
		default:
			return -1
		}
	}, s)

	if i := strings.IndexByte(s, ':'); clock && i >= 0 {
		minutes := strings.ReplaceAll(s[:i], ".", "")
		seconds := strings.ReplaceAll(s[i+1:], ":", "")
		if len(seconds) > secondsDigits && !strings.Contains(seconds, ".") {
			seconds = seconds[:secondsDigits] + "." + seconds[secondsDigits:]
		}
		s = minutes + ":" + singleDot(seconds)
	} else {
		s = singleDot(s)
	}

	if limit := MaxLength(clock); len(s) > limit {
		s = s[:limit]
	}
	return s
}

// singleDot keeps the first '.' and drops the rest.
func singleDot(s string) string {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return s
	}
	return s[:i+1] + strings.ReplaceAll(s[i+1:], ".", "")
}

// FormatTime renders seconds as "m:ss.hh", or "s.hh" under a minute, rounded
// to hundredths. It returns "" for negative or NaN input.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		return ""
	}
	seconds = math.Round(seconds*100) / 100
	minutes := int(seconds / 60)
	rest := math.Mod(seconds, 60)
	if minutes > 0 {
		return fmt.Sprintf("%d:%05.2f", minutes, rest)
	}
	return fmt.Sprintf("%.2f", rest)
}
