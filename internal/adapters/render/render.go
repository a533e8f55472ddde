// Package render prints scorecards for the terminal front-end.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/okian/multicalc/internal/domain/model"
	"github.com/okian/multicalc/internal/domain/types"
)

const (
	tabMinWidth = 0
	tabWidth    = 4
	tabPadding  = 2
)

// Text writes the card as an aligned table followed by the total. Points are
// hidden for events without a mark.
func Text(w io.Writer, card types.Card) error {
	if err := header(w, card); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, tabMinWidth, tabWidth, tabPadding, ' ', tabwriter.AlignRight)
	for _, l := range card.Lines {
		mark, points := "-", ""
		if l.Mark != "" {
			mark, points = l.Mark, strconv.Itoa(l.Points)
		}
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", l.Order, l.Event, mark, points); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tw, "\tTotal\t\t%d\t\n", card.Total); err != nil {
		return err
	}
	return tw.Flush()
}

func header(w io.Writer, card types.Card) error {
	title := card.Discipline
	if d := model.Discipline(card.Discipline); d.Valid() {
		title = d.Title()
	}
	if card.Athlete != "" {
		title += " (" + card.Athlete + ")"
	}
	_, err := fmt.Fprintln(w, title)
	return err
}

// JSON writes the card as indented JSON.
func JSON(w io.Writer, card types.Card) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(card)
}

// Live writes the one-line feedback shown after each typed mark.
func Live(w io.Writer, line types.Line, total int) error {
	points := "-"
	if line.Mark != "" {
		points = strconv.Itoa(line.Points)
	}
	_, err := fmt.Fprintf(w, "%s: %s => %s (total %d)\n", line.Event, line.Mark, points, total)
	return err
}
