package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/multicalc/pkg/logger"
)

// Reason explains how an evaluation arrived at its points. Callers of Score
// never see it; it exists for logs, metrics and tests.
type Reason int

const (
	ReasonScored Reason = iota
	ReasonEmpty
	ReasonUnknownEvent
	ReasonMalformed
	ReasonOutOfRange
	ReasonBelowThreshold
)

func (r Reason) String() string {
	switch r {
	case ReasonScored:
		return "scored"
	case ReasonEmpty:
		return "empty"
	case ReasonUnknownEvent:
		return "unknown_event"
	case ReasonMalformed:
		return "malformed"
	case ReasonOutOfRange:
		return "out_of_range"
	case ReasonBelowThreshold:
		return "below_threshold"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Evaluation is the diagnostic form of a score.
type Evaluation struct {
	Points  int
	Reason  Reason
	Profile Profile
	Formula Formula
	// Err carries the parse failure for malformed and out-of-range input.
	Err error
}

// Observer receives every evaluation. *metrics.Manager satisfies it.
type Observer interface {
	ObserveEvaluation(profile, reason string, points int)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver attaches an evaluation observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine scores performances against the fixed formula tables. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	logger   logger.Logger
	observer Observer
}

// NewEngine creates an engine. Without options it logs nothing and observes
// nothing.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score returns the points for a raw performance, resolving the event
// against the gender's tables. It never fails: empty, unknown, malformed and
// out-of-range input all score 0.
func (e *Engine) Score(event, raw string, g Gender) int {
	return e.Evaluate(event, raw, g).Points
}

// ScoreProfile is Score restricted to a single profile table.
func (e *Engine) ScoreProfile(event, raw string, p Profile) int {
	return e.EvaluateProfile(event, raw, p).Points
}

// Evaluate is Score with the reason attached.
func (e *Engine) Evaluate(event, raw string, g Gender) Evaluation {
	if raw == "" {
		return e.finish(event, raw, Evaluation{Reason: ReasonEmpty})
	}
	f, p, ok := Lookup(event, g)
	if !ok {
		return e.finish(event, raw, Evaluation{Reason: ReasonUnknownEvent})
	}
	return e.evaluate(event, raw, f, p)
}

// EvaluateProfile is ScoreProfile with the reason attached.
func (e *Engine) EvaluateProfile(event, raw string, p Profile) Evaluation {
	if raw == "" {
		return e.finish(event, raw, Evaluation{Reason: ReasonEmpty, Profile: p})
	}
	f, ok := p.Formula(event)
	if !ok {
		return e.finish(event, raw, Evaluation{Reason: ReasonUnknownEvent, Profile: p})
	}
	return e.evaluate(event, raw, f, p)
}

func (e *Engine) evaluate(event, raw string, f Formula, p Profile) (ev Evaluation) {
	ev = Evaluation{Profile: p, Formula: f}
	defer func() {
		if r := recover(); r != nil {
			ev.Points, ev.Reason = 0, ReasonMalformed
			ev.Err = fmt.Errorf("%w: recovered: %v", ErrMalformed, r)
		}
		ev = e.finish(event, raw, ev)
	}()

	performance, err := f.Parse(raw)
	if err != nil {
		ev.Err = err
		ev.Reason = ReasonMalformed
		if errors.Is(err, ErrOutOfRange) {
			ev.Reason = ReasonOutOfRange
		}
		return ev
	}

	points, ok := Points(f.Value(performance))
	if !ok {
		ev.Reason = ReasonBelowThreshold
		return ev
	}
	ev.Points = points
	ev.Reason = ReasonScored
	return ev
}

// finish reports the evaluation to the logger and observer.
func (e *Engine) finish(event, raw string, ev Evaluation) Evaluation {
	ctx := context.Background()
	switch ev.Reason {
	case ReasonScored, ReasonEmpty:
	case ReasonUnknownEvent:
		// Usually a UI slot missing from the tables.
		e.logger.Warn(ctx, "event not in any scoring table",
			logger.String("event", event),
			logger.String("profile", ev.Profile.String()),
		)
	default:
		fields := []logger.Field{
			logger.String("event", event),
			logger.String("raw", raw),
			logger.String("profile", ev.Profile.String()),
			logger.String("reason", ev.Reason.String()),
		}
		if ev.Err != nil {
			fields = append(fields, logger.Error(ev.Err))
		}
		e.logger.Debug(ctx, "performance scored zero", fields...)
	}
	if e.observer != nil {
		e.observer.ObserveEvaluation(ev.Profile.String(), ev.Reason.String(), ev.Points)
	}
	return ev
}
