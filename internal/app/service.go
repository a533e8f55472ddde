// Package service provides the calculator service the display layer talks
// to: it normalizes keystrokes, scores them and sums scorecards.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/multicalc/internal/domain/model"
	"github.com/okian/multicalc/internal/domain/normalize"
	"github.com/okian/multicalc/internal/domain/scoring"
	"github.com/okian/multicalc/internal/domain/types"
	"github.com/okian/multicalc/pkg/logger"
)

// Recorder receives display layer activity. *metrics.Manager satisfies it.
type Recorder interface {
	RecordKeystroke(discipline string)
	RecordCardTallied(discipline string, total int)
}

// Service implements the calculator behind the terminal front-end.
type Service struct {
	engine   *scoring.Engine
	recorder Recorder
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine replaces the default scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New constructs a Service. Without WithEngine it builds an engine that
// shares the service logger.
func New(opts ...Option) *Service {
	s := &Service{logger: logger.Nop()}

	for _, opt := range opts {
		opt(s)
	}

	if s.engine == nil {
		s.engine = scoring.NewEngine(scoring.WithLogger(s.logger))
	}
	return s
}

// Keystroke runs one live-typing step for an event: the raw field content is
// normalized and scored against the discipline's table. The normalized text
// is what the entry field should show next.
func (s *Service) Keystroke(ctx context.Context, d model.Discipline, event, input string) (string, int) {
	slot, ok := d.Slot(event)
	if !ok {
		s.logger.Debug(ctx, "keystroke for event outside discipline",
			logger.String("discipline", string(d)),
			logger.String("event", event),
		)
	}
	normalized := normalize.Normalize(input, slot.Clock)
	points := s.engine.ScoreProfile(event, normalized, d.Profile())

	if s.recorder != nil {
		s.recorder.RecordKeystroke(string(d))
	}
	return normalized, points
}

// Tally builds the scorecard for a discipline from raw marks keyed by event
// name. Slots without a mark stay on the card with zero points; marks for
// events outside the discipline are ignored.
func (s *Service) Tally(ctx context.Context, d model.Discipline, marks map[string]string) (types.Card, error) {
	if !d.Valid() {
		return types.Card{}, fmt.Errorf("%w: %q", model.ErrUnknownDiscipline, d)
	}

	card := types.Card{Discipline: string(d)}
	for i, slot := range d.Slots() {
		mark := normalize.Normalize(marks[slot.Event], slot.Clock)
		points := s.engine.ScoreProfile(slot.Event, mark, d.Profile())
		if slot.Clock {
			mark = clockMark(mark)
		}
		card.Lines = append(card.Lines, types.Line{
			Order:  i + 1,
			Event:  slot.Event,
			Mark:   mark,
			Points: points,
		})
	}

	for event := range marks {
		if _, ok := d.Slot(event); !ok {
			s.logger.Warn(ctx, "ignoring mark for event outside discipline",
				logger.String("discipline", string(d)),
				logger.String("event", event),
			)
		}
	}

	card.Total = card.Sum()
	if s.recorder != nil {
		s.recorder.RecordCardTallied(string(d), card.Total)
	}
	s.logger.Debug(ctx, "scorecard tallied",
		logger.String("discipline", string(d)),
		logger.Int("attempted", card.Attempted()),
		logger.Int("total", card.Total),
	)
	return card, nil
}

// clockMark shows a clock event entered as plain seconds ("133.6") the way
// the entry field would ("2:13.60").
func clockMark(mark string) string {
	if mark == "" || strings.Contains(mark, ":") {
		return mark
	}
	seconds, err := scoring.ParseSeconds(mark)
	if err != nil {
		return mark
	}
	if formatted := normalize.FormatTime(seconds); formatted != "" {
		return formatted
	}
	return mark
}

// Score scores a raw mark by gender, resolving the event against the
// gender's tables in priority order rather than one discipline.
func (s *Service) Score(ctx context.Context, g scoring.Gender, event, raw string) int {
	points := s.engine.Score(event, raw, g)
	s.logger.Debug(ctx, "scored by gender",
		logger.String("gender", string(g)),
		logger.String("event", event),
		logger.Int("points", points),
	)
	return points
}
