// Package types contains common types used across the application
package types

// Line is one event row on a scorecard.
type Line struct {
	Order  int    `json:"order"`
	Event  string `json:"event"`
	Mark   string `json:"mark"`
	Points int    `json:"points"`
}

// Card is a summed scorecard for one athlete and discipline.
type Card struct {
	ID         string `json:"id,omitempty"`
	Athlete    string `json:"athlete,omitempty"`
	Discipline string `json:"discipline"`
	Lines      []Line `json:"lines"`
	Total      int    `json:"total"`
}

// Sum adds up the line points.
func (c Card) Sum() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Points
	}
	return total
}

// Attempted counts lines with a mark entered.
func (c Card) Attempted() int {
	n := 0
	for _, l := range c.Lines {
		if l.Mark != "" {
			n++
		}
	}
	return n
}
