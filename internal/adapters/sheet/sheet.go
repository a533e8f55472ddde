// Package sheet reads athlete marks sheets written in TOML:
//
//	athlete = "A. Athlete"
//	discipline = "pentathlon"
//
//	[marks]
//	"60m Hurdles" = "8.23"
//	"Long Jump" = 6.59
//	"800m" = "2:13.60"
//
// Sheets are input only; scores are never written back.
package sheet

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/okian/multicalc/internal/domain/model"
)

// Sheet holds one athlete's raw marks for a discipline.
type Sheet struct {
	ID         string
	Athlete    string
	Discipline model.Discipline
	Marks      map[string]string
}

type document struct {
	ID         string         `toml:"id"`
	Athlete    string         `toml:"athlete"`
	Discipline string         `toml:"discipline"`
	Marks      map[string]any `toml:"marks"`
}

// Load reads and validates the sheet at path.
func Load(_ context.Context, path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSheet, err)
	}
	defer func() { _ = f.Close() }()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode parses a sheet from r. A sheet without an id gets a random one.
func Decode(r io.Reader) (*Sheet, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSheet, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidSheet, strings.Join(keys, ", "))
	}

	d, err := model.ParseDiscipline(doc.Discipline)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSheet, err)
	}

	s := &Sheet{
		ID:         doc.ID,
		Athlete:    doc.Athlete,
		Discipline: d,
		Marks:      make(map[string]string, len(doc.Marks)),
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	for event, v := range doc.Marks {
		mark, err := markString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: mark %q: %w", ErrInvalidSheet, event, err)
		}
		s.Marks[event] = mark
	}
	return s, nil
}

// markString accepts marks written as strings or bare TOML numbers.
func markString(v any) (string, error) {
	switch m := v.(type) {
	case string:
		return m, nil
	case int64:
		return strconv.FormatInt(m, 10), nil
	case float64:
		return strconv.FormatFloat(m, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}
