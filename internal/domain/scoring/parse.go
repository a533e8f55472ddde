package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const secondsPerMinute = 60

// ParseSeconds reads "m:ss.hh" or plain decimal seconds. Anything after a
// second ':' is ignored.
func ParseSeconds(raw string) (float64, error) {
	if !strings.Contains(raw, ":") {
		return parseDecimal(raw)
	}
	parts := strings.SplitN(raw, ":", 3)
	minutes, err := parseDecimal(parts[0])
	if err != nil {
		return 0, fmt.Errorf("minutes: %w", err)
	}
	seconds, err := parseDecimal(parts[1])
	if err != nil {
		return 0, fmt.Errorf("seconds: %w", err)
	}
	return minutes*secondsPerMinute + seconds, nil
}

// ParseMeters reads a decimal distance in meters.
func ParseMeters(raw string) (float64, error) {
	return parseDecimal(raw)
}

// parseDecimal reads the longest leading decimal number in s, the way a
// half-typed input field is read: leading whitespace is skipped and trailing
// characters are ignored ("10.8x" is 10.8).
func parseDecimal(s string) (float64, error) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformed, s)
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		j := end + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrMalformed, s[:end])
	}
	return v, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
