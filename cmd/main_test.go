package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/multicalc/internal/adapters/worker"
	app "github.com/okian/multicalc/internal/app"
	"github.com/okian/multicalc/internal/config"
	"github.com/okian/multicalc/internal/domain/model"
	"github.com/okian/multicalc/internal/domain/types"
	"github.com/okian/multicalc/pkg/logger"
	"github.com/okian/multicalc/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(&bytes.Buffer{})); err != nil {
		panic(err)
	}
}

type countingRecorder struct{ errors int }

func (c *countingRecorder) RecordSheetError() { c.errors++ }

var errClosedPipe = errors.New("closed pipe")

// brokenWriter accepts a fixed number of writes and fails every one after.
type brokenWriter struct{ allowed int }

func (b *brokenWriter) Write(p []byte) (int, error) {
	if b.allowed == 0 {
		return 0, errClosedPipe
	}
	b.allowed--
	return len(p), nil
}

func writeSheet(dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}

func TestInteractive(t *testing.T) {
	convey.Convey("Given an interactive pentathlon session", t, func() {
		svc := app.New()
		ctx := context.Background()
		var out bytes.Buffer

		convey.Convey("When marks are typed line by line", func() {
			input := strings.Join([]string{
				"60m hurdles = 8.23",
				"High Jump = 1,92",
				"800m = 2:1360",
				"Javelin Throw = 50",
				"nonsense",
				"show",
				"quit",
				"Shot Put = 15.54",
			}, "\n")
			err := interactive(ctx, svc, model.Pentathlon, strings.NewReader(input), &out)
			text := out.String()

			convey.Convey("Then each mark echoes its points and the running total", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldStartWith, "Women's Pentathlon Points Calculator\n")
				convey.So(text, convey.ShouldContainSubstring, "60m Hurdles: 8.23 => 1077 (total 1077)")
				convey.So(text, convey.ShouldContainSubstring, "High Jump: 1.92 => 1132 (total 2209)")
				convey.So(text, convey.ShouldContainSubstring, "800m: 2:13.60 => 913 (total 3122)")
			})

			convey.Convey("And unknown events and commands get a hint", func() {
				convey.So(text, convey.ShouldContainSubstring, `unknown event "Javelin Throw" for Women's Pentathlon`)
				convey.So(text, convey.ShouldContainSubstring, `expected "event = mark"`)
			})

			convey.Convey("And input after quit is ignored", func() {
				convey.So(text, convey.ShouldNotContainSubstring, "Shot Put: 15.54")
			})
		})

		convey.Convey("When the discipline is switched", func() {
			input := "800m = 2:13.60\ndiscipline decathlon\n100m = 10.83\ndiscipline octathlon\n"
			err := interactive(ctx, svc, model.Pentathlon, strings.NewReader(input), &out)

			convey.Convey("Then marks reset and the new table applies", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "Men's Decathlon Points Calculator")
				convey.So(out.String(), convey.ShouldContainSubstring, "100m: 10.83 => 899 (total 899)")
				convey.So(out.String(), convey.ShouldContainSubstring, "unknown discipline")
			})
		})
	})
}

func TestInteractiveScoreByGender(t *testing.T) {
	convey.Convey("Given an interactive pentathlon session", t, func() {
		svc := app.New()
		var out bytes.Buffer

		convey.Convey("When marks are scored by gender", func() {
			input := strings.Join([]string{
				"score javelin throw = 50.00",
				"score men long jump = 7.80",
				"score Women 60m Hurdles = 8.23",
				"score men Hammer Throw = 70",
				"score 100m",
			}, "\n")
			err := interactive(context.Background(), svc, model.Pentathlon, strings.NewReader(input), &out)
			text := out.String()

			convey.Convey("Then the gender's tables are searched in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldContainSubstring, "Javelin Throw (women): 50.00 => 860")
				convey.So(text, convey.ShouldContainSubstring, "Long Jump (men): 7.80 => 1010")
				convey.So(text, convey.ShouldContainSubstring, "60m Hurdles (women): 8.23 => 1077")
			})

			convey.Convey("And unknown events or missing marks get a hint", func() {
				convey.So(text, convey.ShouldContainSubstring, `unknown event "Hammer Throw" for men`)
				convey.So(text, convey.ShouldContainSubstring, `"score [men|women] event = mark"`)
			})

			convey.Convey("And the discipline's own card is untouched", func() {
				convey.So(text, convey.ShouldNotContainSubstring, "(total")
			})
		})
	})
}

func TestInteractiveWriteFailures(t *testing.T) {
	convey.Convey("Given an output that breaks right after the prompt", t, func() {
		promptWrites := 1 + len(model.Pentathlon.Slots())
		lines := []string{
			"clear",
			"nonsense",
			"discipline octathlon",
			"Hammer Throw = 70",
			"score men Hammer Throw = 70",
			"800m = 2:13.60",
		}

		for _, line := range lines {
			w := &brokenWriter{allowed: promptWrites}
			err := interactive(context.Background(), app.New(), model.Pentathlon, strings.NewReader(line+"\nquit\n"), w)

			convey.So(errors.Is(err, errClosedPipe), convey.ShouldBeTrue)
		}
	})
}

func TestScoreSheets(t *testing.T) {
	convey.Convey("Given sheet files on disk", t, func() {
		dir := t.TempDir()
		good := writeSheet(dir, "good.toml", `
athlete = "A. Athlete"
discipline = "pentathlon"

[marks]
"60m Hurdles" = "8.23"
"High Jump" = "1.92"
"Shot Put" = "15.54"
"Long Jump" = "6.59"
"800m" = "2:13.60"
`)
		bad := writeSheet(dir, "bad.toml", `discipline = "octathlon"`)
		pool := worker.NewPool(app.New(), worker.WithSize(2))
		rec := &countingRecorder{}
		var out bytes.Buffer

		convey.Convey("When scoring a valid sheet as JSON", func() {
			err := scoreSheets(context.Background(), pool, []string{good}, &out, config.FormatJSON, rec)

			convey.Convey("Then the card carries the total", func() {
				convey.So(err, convey.ShouldBeNil)
				var card types.Card
				convey.So(json.Unmarshal(out.Bytes(), &card), convey.ShouldBeNil)
				convey.So(card.Total, convey.ShouldEqual, 5055)
				convey.So(card.Athlete, convey.ShouldEqual, "A. Athlete")
				convey.So(card.ID, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When one sheet is broken", func() {
			err := scoreSheets(context.Background(), pool, []string{bad, good}, &out, config.FormatText, rec)

			convey.Convey("Then the good sheet still prints and the failure is reported", func() {
				convey.So(errors.Is(err, errSheetsFailed), convey.ShouldBeTrue)
				convey.So(rec.errors, convey.ShouldEqual, 1)
				convey.So(out.String(), convey.ShouldContainSubstring, "Women's Pentathlon (A. Athlete)")
				convey.So(out.String(), convey.ShouldContainSubstring, "5055")
			})
		})

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := scoreSheets(ctx, pool, []string{good}, &out, config.FormatText, rec)

			convey.Convey("Then nothing is printed", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
				convey.So(out.Len(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestMetricsWiring(t *testing.T) {
	convey.Convey("Given the global metrics manager", t, func() {
		convey.Convey("Then it satisfies the engine and service hooks", func() {
			var _ sheetErrorRecorder = metrics.Default()
			var _ app.Recorder = metrics.Default()
			var _ worker.Tallier = app.New()
			convey.So(metrics.Default(), convey.ShouldNotBeNil)
		})
	})
}
