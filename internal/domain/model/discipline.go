// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/multicalc/internal/domain/scoring"
)

// ErrUnknownDiscipline is returned by ParseDiscipline.
var ErrUnknownDiscipline = errors.New("unknown discipline")

// Discipline is a combined-events competition.
type Discipline string

const (
	Decathlon        Discipline = "decathlon"
	MensHeptathlon   Discipline = "mens-heptathlon"
	WomensHeptathlon Discipline = "womens-heptathlon"
	Pentathlon       Discipline = "pentathlon"
)

// Slot is one entry field on a scorecard.
type Slot struct {
	Event       string
	Placeholder string
	// Clock marks events entered as minutes:seconds.
	Clock bool
}

type disciplineInfo struct {
	title   string
	gender  scoring.Gender
	profile scoring.Profile
	slots   []Slot
}

var disciplines = map[Discipline]disciplineInfo{ //nolint:gochecknoglobals // constant catalog
	Decathlon: {
		title:   "Men's Decathlon",
		gender:  scoring.Men,
		profile: scoring.MensDecathlon,
		slots: []Slot{
			{Event: "100m", Placeholder: "10.83"},
			{Event: "Long Jump", Placeholder: "7.80"},
			{Event: "Shot Put", Placeholder: "15.00"},
			{Event: "High Jump", Placeholder: "2.05"},
			{Event: "400m", Placeholder: "48.00"},
			{Event: "110m Hurdles", Placeholder: "14.50"},
			{Event: "Discus Throw", Placeholder: "45.00"},
			{Event: "Pole Vault", Placeholder: "5.00"},
			{Event: "Javelin Throw", Placeholder: "65.00"},
			{Event: "1500m", Placeholder: "4:30.00", Clock: true},
		},
	},
	MensHeptathlon: {
		title:   "Men's Heptathlon",
		gender:  scoring.Men,
		profile: scoring.MensHeptathlon,
		slots: []Slot{
			{Event: "60m", Placeholder: "6.75"},
			{Event: "Long Jump", Placeholder: "7.80"},
			{Event: "Shot Put", Placeholder: "16.00"},
			{Event: "High Jump", Placeholder: "2.05"},
			{Event: "60m Hurdles", Placeholder: "7.90"},
			{Event: "Pole Vault", Placeholder: "5.45"},
			{Event: "1000m", Placeholder: "2:30.00", Clock: true},
		},
	},
	WomensHeptathlon: {
		title:   "Women's Heptathlon",
		gender:  scoring.Women,
		profile: scoring.WomensHeptathlon,
		slots: []Slot{
			{Event: "100m Hurdles", Placeholder: "13.20"},
			{Event: "High Jump", Placeholder: "1.85"},
			{Event: "Shot Put", Placeholder: "14.50"},
			{Event: "200m", Placeholder: "23.80"},
			{Event: "Long Jump", Placeholder: "6.50"},
			{Event: "Javelin Throw", Placeholder: "48.00"},
			{Event: "800m", Placeholder: "2:10.00", Clock: true},
		},
	},
	Pentathlon: {
		title:   "Women's Pentathlon",
		gender:  scoring.Women,
		profile: scoring.WomensPentathlon,
		slots: []Slot{
			{Event: "60m Hurdles", Placeholder: "8.23"},
			{Event: "High Jump", Placeholder: "1.92"},
			{Event: "Shot Put", Placeholder: "15.54"},
			{Event: "Long Jump", Placeholder: "6.59"},
			{Event: "800m", Placeholder: "2:13.60", Clock: true},
		},
	},
}

// Disciplines lists every discipline.
func Disciplines() []Discipline {
	return []Discipline{Decathlon, MensHeptathlon, WomensHeptathlon, Pentathlon}
}

// ParseDiscipline accepts a discipline name, ignoring case and surrounding
// space.
func ParseDiscipline(s string) (Discipline, error) {
	d := Discipline(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := disciplines[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDiscipline, s)
	}
	return d, nil
}

// Valid reports whether d is a known discipline.
func (d Discipline) Valid() bool {
	_, ok := disciplines[d]
	return ok
}

// Title is the human-readable name.
func (d Discipline) Title() string { return disciplines[d].title }

// Gender is the lookup selector for the discipline's events.
func (d Discipline) Gender() scoring.Gender { return disciplines[d].gender }

// Profile is the scoring table the discipline's events resolve against.
func (d Discipline) Profile() scoring.Profile { return disciplines[d].profile }

// Slots returns the entry fields in competition order.
func (d Discipline) Slots() []Slot {
	return append([]Slot(nil), disciplines[d].slots...)
}

// Slot finds the entry field for an event.
func (d Discipline) Slot(event string) (Slot, bool) {
	for _, s := range disciplines[d].slots {
		if s.Event == event {
			return s, true
		}
	}
	return Slot{}, false
}
