package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Profile identifies one fixed competition table.
type Profile int

const (
	// NoProfile is reported when an event resolves against no table.
	NoProfile Profile = iota
	MensDecathlon
	MensHeptathlon
	WomensHeptathlon
	WomensPentathlon
)

var profileNames = map[Profile]string{ //nolint:gochecknoglobals // constant lookup
	NoProfile:        "none",
	MensDecathlon:    "MensDecathlon",
	MensHeptathlon:   "MensHeptathlon",
	WomensHeptathlon: "WomensHeptathlon",
	WomensPentathlon: "WomensPentathlon",
}

func (p Profile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("profile(%d)", int(p))
}

// Profiles lists every competition profile.
func Profiles() []Profile {
	return []Profile{MensDecathlon, MensHeptathlon, WomensHeptathlon, WomensPentathlon}
}

// ParseProfile resolves a profile by name, case-insensitively.
func ParseProfile(name string) (Profile, error) {
	for _, p := range Profiles() {
		if strings.EqualFold(p.String(), strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return NoProfile, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Formula returns the event's formula in this profile.
func (p Profile) Formula(event string) (Formula, bool) {
	f, ok := tables[p][event]
	return f, ok
}

// Events returns the profile's event names in lexical order.
func (p Profile) Events() []string {
	names := make([]string, 0, len(tables[p]))
	for name := range tables[p] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shared jump and vault coefficients.
var (
	mensLongJump   = Formula{A: 0.14354, B: 220, C: 1.4, Kind: Field, UnitScale: centimeterScale}
	mensHighJump   = Formula{A: 0.8465, B: 75, C: 1.42, Kind: Field, UnitScale: centimeterScale}
	mensPoleVault  = Formula{A: 0.2797, B: 100, C: 1.35, Kind: Field, UnitScale: centimeterScale}
	mensShotPut    = Formula{A: 51.39, B: 1.5, C: 1.05, Kind: Field}
	womensHighJump = Formula{A: 1.84523, B: 75, C: 1.348, Kind: Field, UnitScale: centimeterScale}
	womensLongJump = Formula{A: 0.188807, B: 210, C: 1.41, Kind: Field, UnitScale: centimeterScale}
	womensShotPut  = Formula{A: 56.0211, B: 1.5, C: 1.05, Kind: Field}
	womens800m     = Formula{A: 0.11193, B: 254, C: 1.88, Kind: Track}
)

// tables is read-only after package initialization.
var tables = map[Profile]map[string]Formula{ //nolint:gochecknoglobals // constant formula data
	MensDecathlon: {
		"100m":          {A: 25.4347, B: 18, C: 1.81, Kind: Track},
		"Long Jump":     mensLongJump,
		"Shot Put":      mensShotPut,
		"High Jump":     mensHighJump,
		"400m":          {A: 1.53775, B: 82, C: 1.81, Kind: Track},
		"110m Hurdles":  {A: 5.74352, B: 28.5, C: 1.92, Kind: Track},
		"Discus Throw":  {A: 12.91, B: 4, C: 1.1, Kind: Field},
		"Pole Vault":    mensPoleVault,
		"Javelin Throw": {A: 10.14, B: 7, C: 1.08, Kind: Field},
		"1500m":         {A: 0.03768, B: 480, C: 1.85, Kind: Track},
	},
	MensHeptathlon: {
		"60m":         {A: 58.015, B: 11.5, C: 1.81, Kind: Track},
		"Long Jump":   mensLongJump,
		"Shot Put":    mensShotPut,
		"High Jump":   mensHighJump,
		"60m Hurdles": {A: 20.5173, B: 15.5, C: 1.92, Kind: Track},
		"Pole Vault":  mensPoleVault,
		"1000m":       {A: 0.08713, B: 305.5, C: 1.85, Kind: Track},
	},
	WomensHeptathlon: {
		"100m Hurdles":  {A: 9.23076, B: 26.7, C: 1.835, Kind: Track},
		"High Jump":     womensHighJump,
		"Shot Put":      womensShotPut,
		"200m":          {A: 4.99087, B: 42.5, C: 1.81, Kind: Track},
		"Long Jump":     womensLongJump,
		"Javelin Throw": {A: 15.9803, B: 3.8, C: 1.04, Kind: Field},
		"800m":          womens800m,
	},
	WomensPentathlon: {
		"60m Hurdles": {A: 20.0479, B: 17, C: 1.835, Kind: Track},
		"High Jump":   womensHighJump,
		"Shot Put":    womensShotPut,
		"Long Jump":   womensLongJump,
		"800m":        womens800m,
	},
}

// Gender selects the ordered set of tables an event name resolves against.
type Gender string

const (
	Men   Gender = "men"
	Women Gender = "women"
)

// ParseGender accepts exactly "men" or "women".
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case Men, Women:
		return Gender(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
	}
}

// lookupOrder puts the discipline-specific table ahead of the main one.
// Collisions are resolved by this order, so the tables are never merged.
var lookupOrder = map[Gender][]Profile{ //nolint:gochecknoglobals // constant dispatch
	Men:   {MensHeptathlon, MensDecathlon},
	Women: {WomensHeptathlon, WomensPentathlon},
}

// Candidates returns the tables consulted for g, in priority order.
func Candidates(g Gender) []Profile {
	return append([]Profile(nil), lookupOrder[g]...)
}

// Lookup resolves an event for a gender against its candidate tables.
func Lookup(event string, g Gender) (Formula, Profile, bool) {
	for _, p := range lookupOrder[g] {
		if f, ok := p.Formula(event); ok {
			return f, p, true
		}
	}
	return Formula{}, NoProfile, false
}
