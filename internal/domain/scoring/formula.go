// Package scoring converts raw combined-events performances into points.
//
// Each event is scored with one of two IAAF-style formulas:
//
//	track: points = A * (B - seconds)^C
//	field: points = A * (performance - B)^C
//
// where B is the breakpoint at which points reach zero. Results are clamped
// at zero and truncated to an integer.
package scoring

import (
	"fmt"
	"math"
)

// Kind selects the scoring direction of an event.
type Kind int

const (
	// Track events are timed; lower is better.
	Track Kind = iota + 1
	// Field events are measured in meters; higher is better.
	Field
)

func (k Kind) String() string {
	switch k {
	case Track:
		return "track"
	case Field:
		return "field"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// centimeterScale marks jumps and vaults. Their B coefficient is already
// calibrated in centimeters, so it is used unscaled.
const centimeterScale = 100

// maxPoints caps a formula value before integer conversion so huge marks
// saturate instead of overflowing.
const maxPoints = math.MaxInt32

// Formula holds the coefficients for one event.
type Formula struct {
	A, B, C float64
	Kind    Kind
	// UnitScale multiplies the measured meters before scoring. Zero means 1.
	UnitScale float64
}

func (f Formula) scale() float64 {
	if f.UnitScale == 0 {
		return 1
	}
	return f.UnitScale
}

// Parse reads raw as seconds for track events and meters for field events and
// validates the range. Errors wrap ErrMalformed or ErrOutOfRange.
func (f Formula) Parse(raw string) (float64, error) {
	switch f.Kind {
	case Track:
		seconds, err := ParseSeconds(raw)
		if err != nil {
			return 0, err
		}
		if seconds <= 0 {
			return 0, fmt.Errorf("%w: time %v must be positive", ErrOutOfRange, seconds)
		}
		return seconds, nil
	case Field:
		meters, err := ParseMeters(raw)
		if err != nil {
			return 0, err
		}
		if meters < 0 {
			return 0, fmt.Errorf("%w: distance %v must not be negative", ErrOutOfRange, meters)
		}
		return meters, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownKind, f.Kind)
	}
}

// Value evaluates the formula for a parsed performance without clamping.
// It is NaN when the performance is on the wrong side of the breakpoint and
// C is not an integer.
func (f Formula) Value(performance float64) float64 {
	if f.Kind == Track {
		return f.A * math.Pow(f.B-performance, f.C)
	}

	scale := f.scale()
	scaled := performance * scale
	b := f.B
	// Calibration quirk of the published constants: only the centimeter
	// scale leaves B untouched.
	if scale != centimeterScale {
		b *= scale
	}
	return f.A * math.Pow(scaled-b, f.C)
}

// Points clamps and truncates a formula value. ok is false when the value is
// at or below zero, or NaN. Values at or above maxPoints saturate at it.
func Points(value float64) (points int, ok bool) {
	if math.IsNaN(value) || value <= 0 {
		return 0, false
	}
	if value >= maxPoints {
		return maxPoints, true
	}
	return int(math.Floor(value)), true
}
