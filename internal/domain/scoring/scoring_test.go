package scoring_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/okian/multicalc/internal/domain/scoring"
	"github.com/okian/multicalc/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingObserver struct {
	mu      sync.Mutex
	reasons []string
	points  []int
}

func (o *recordingObserver) ObserveEvaluation(_ string, reason string, points int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reasons = append(o.reasons, reason)
	o.points = append(o.points, points)
}

func TestEngine_Score(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		engine := scoring.NewEngine()

		Convey("When scoring a sprint", func() {
			Convey("Then 100m in 10.83 uses A=25.4347 B=18 C=1.81", func() {
				want := int(math.Floor(25.4347 * math.Pow(18-10.83, 1.81)))
				So(engine.Score("100m", "10.83", scoring.Men), ShouldEqual, want)
				So(want, ShouldEqual, 899)
			})
		})

		Convey("When scoring a throw measured in meters", func() {
			Convey("Then Shot Put 15.00 uses B in meters", func() {
				So(engine.Score("Shot Put", "15.00", scoring.Men), ShouldEqual, 790)
			})
		})

		Convey("When scoring a jump with centimeter scale", func() {
			Convey("Then B is used unscaled", func() {
				So(engine.Score("Long Jump", "7.80", scoring.Men), ShouldEqual, 1010)
				So(engine.Score("High Jump", "2.05", scoring.Men), ShouldEqual, 850)
				So(engine.Score("Pole Vault", "5.45", scoring.Men), ShouldEqual, 1051)
			})
		})

		Convey("When scoring a time with minutes", func() {
			Convey("Then 1000m in 2:30.00 is 150 seconds", func() {
				So(engine.Score("1000m", "2:30.00", scoring.Men), ShouldEqual, 988)
			})

			Convey("And 1500m in 4:30 scores the decathlon formula", func() {
				So(engine.Score("1500m", "4:30", scoring.Men), ShouldEqual, 745)
			})
		})

		Convey("When the raw input is empty", func() {
			Convey("Then every event of every gender scores 0", func() {
				for _, g := range []scoring.Gender{scoring.Men, scoring.Women} {
					for _, p := range scoring.Candidates(g) {
						for _, event := range p.Events() {
							So(engine.Score(event, "", g), ShouldEqual, 0)
						}
					}
				}
			})
		})

		Convey("When the input is negative or garbage", func() {
			So(engine.Score("100m", "-5", scoring.Men), ShouldEqual, 0)
			So(engine.Score("100m", "abc", scoring.Men), ShouldEqual, 0)
			So(engine.Score("100m", "0", scoring.Men), ShouldEqual, 0)
			So(engine.Score("Shot Put", "-1", scoring.Men), ShouldEqual, 0)
			So(engine.Score("1000m", ":30", scoring.Men), ShouldEqual, 0)
			So(engine.Score("1000m", "2:", scoring.Men), ShouldEqual, 0)
		})

		Convey("When the performance is past the breakpoint", func() {
			So(engine.Score("100m", "18", scoring.Men), ShouldEqual, 0)
			So(engine.Score("100m", "25.00", scoring.Men), ShouldEqual, 0)
			So(engine.Score("Long Jump", "2.20", scoring.Men), ShouldEqual, 0)
			So(engine.Score("Long Jump", "1.00", scoring.Men), ShouldEqual, 0)
			So(engine.Score("Shot Put", "1.5", scoring.Men), ShouldEqual, 0)
		})

		Convey("When the event is unknown for the gender", func() {
			So(engine.Score("Javelin Throw", "50.00", scoring.Men), ShouldBeGreaterThan, 0)
			So(engine.Score("Decathlon Swim", "50.00", scoring.Men), ShouldEqual, 0)
			So(engine.Score("1000m", "2:30.00", scoring.Women), ShouldEqual, 0)
		})

		Convey("When the gender is not recognized", func() {
			So(engine.Score("100m", "10.83", scoring.Gender("mixed")), ShouldEqual, 0)
		})

		Convey("When input carries trailing characters", func() {
			Convey("Then the leading number is scored", func() {
				So(engine.Score("100m", "10.83s", scoring.Men), ShouldEqual, 899)
				So(engine.Score("100m", " 10.83", scoring.Men), ShouldEqual, 899)
			})
		})
	})
}

func TestEngine_ScoreProfile(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		engine := scoring.NewEngine()

		Convey("When the event is missing from the selected profile", func() {
			Convey("Then javelin scores 0 in the pentathlon", func() {
				So(engine.ScoreProfile("Javelin Throw", "50.00", scoring.WomensPentathlon), ShouldEqual, 0)
			})

			Convey("But the women's lookup finds it in the heptathlon table", func() {
				So(engine.Score("Javelin Throw", "50.00", scoring.Women), ShouldEqual, 860)
				So(engine.ScoreProfile("Javelin Throw", "50.00", scoring.WomensHeptathlon), ShouldEqual, 860)
			})
		})

		Convey("When scoring a full pentathlon", func() {
			marks := map[string]string{
				"60m Hurdles": "8.23",
				"High Jump":   "1.92",
				"Shot Put":    "15.54",
				"Long Jump":   "6.59",
				"800m":        "2:13.60",
			}
			want := map[string]int{
				"60m Hurdles": 1077,
				"High Jump":   1132,
				"Shot Put":    897,
				"Long Jump":   1036,
				"800m":        913,
			}

			Convey("Then each event matches the published formula", func() {
				for event, raw := range marks {
					So(engine.ScoreProfile(event, raw, scoring.WomensPentathlon), ShouldEqual, want[event])
				}
			})
		})

		Convey("When decathlon-only events are scored", func() {
			So(engine.ScoreProfile("Discus Throw", "50.00", scoring.MensDecathlon), ShouldEqual, 870)
			So(engine.ScoreProfile("Javelin Throw", "70.00", scoring.MensDecathlon), ShouldEqual, 889)
			So(engine.ScoreProfile("400m", "48.00", scoring.MensDecathlon), ShouldEqual, 909)
			So(engine.ScoreProfile("110m Hurdles", "14.50", scoring.MensDecathlon), ShouldEqual, 911)
			So(engine.ScoreProfile("60m", "6.75", scoring.MensDecathlon), ShouldEqual, 0)
			So(engine.ScoreProfile("60m", "6.75", scoring.MensHeptathlon), ShouldEqual, 973)
		})
	})
}

func TestEngine_Evaluate(t *testing.T) {
	Convey("Given a scoring engine", t, func() {
		engine := scoring.NewEngine()

		Convey("Then each zero result carries a distinct reason", func() {
			cases := []struct {
				event  string
				raw    string
				reason scoring.Reason
			}{
				{"100m", "10.83", scoring.ReasonScored},
				{"100m", "", scoring.ReasonEmpty},
				{"Hammer Throw", "70", scoring.ReasonUnknownEvent},
				{"100m", "abc", scoring.ReasonMalformed},
				{"100m", "-5", scoring.ReasonOutOfRange},
				{"Shot Put", "-0.5", scoring.ReasonOutOfRange},
				{"100m", "19.5", scoring.ReasonBelowThreshold},
				{"Long Jump", "2.00", scoring.ReasonBelowThreshold},
				{"Long Jump", "1e307", scoring.ReasonScored},
			}
			for _, c := range cases {
				ev := engine.Evaluate(c.event, c.raw, scoring.Men)
				So(ev.Reason, ShouldEqual, c.reason)
				if c.reason != scoring.ReasonScored {
					So(ev.Points, ShouldEqual, 0)
				}
			}
		})

		Convey("Then absurd marks saturate instead of wrapping to zero", func() {
			ev := engine.Evaluate("Long Jump", "1e307", scoring.Men)
			So(ev.Points, ShouldEqual, math.MaxInt32)
			So(ev.Err, ShouldBeNil)
		})

		Convey("Then the resolving profile is reported", func() {
			ev := engine.Evaluate("Long Jump", "7.80", scoring.Men)
			So(ev.Profile, ShouldEqual, scoring.MensHeptathlon)
			So(ev.Formula.Kind, ShouldEqual, scoring.Field)
			So(ev.Points, ShouldEqual, 1010)
		})

		Convey("Then parse failures keep their sentinel", func() {
			ev := engine.Evaluate("100m", "abc", scoring.Men)
			So(errors.Is(ev.Err, scoring.ErrMalformed), ShouldBeTrue)

			ev = engine.Evaluate("100m", "-5", scoring.Men)
			So(errors.Is(ev.Err, scoring.ErrOutOfRange), ShouldBeTrue)
		})
	})
}

func TestEngine_Properties(t *testing.T) {
	Convey("Given every formula in every profile", t, func() {
		engine := scoring.NewEngine()

		Convey("Then track points never drop as the time improves", func() {
			for _, p := range scoring.Profiles() {
				for _, event := range p.Events() {
					f, _ := p.Formula(event)
					if f.Kind != scoring.Track {
						continue
					}
					prev := -1
					for s := f.B + 5; s > f.B/4; s -= f.B / 200 {
						pts, _ := scoring.Points(f.Value(s))
						So(pts, ShouldBeGreaterThanOrEqualTo, prev)
						prev = pts
					}
				}
			}
		})

		Convey("Then field points never drop as the distance grows", func() {
			for _, p := range scoring.Profiles() {
				for _, event := range p.Events() {
					f, _ := p.Formula(event)
					if f.Kind != scoring.Field {
						continue
					}
					prev := -1
					for m := 0.0; m < 100; m += 0.25 {
						pts, _ := scoring.Points(f.Value(m))
						So(pts, ShouldBeGreaterThanOrEqualTo, prev)
						prev = pts
					}
				}
			}
		})

		Convey("Then huge field marks stay ordered past the points cap", func() {
			marks := []string{"100", "1e5", "1e6", "1e7", "4e7", "1e9", "1e12", "1e307"}
			for _, p := range scoring.Profiles() {
				for _, event := range p.Events() {
					f, _ := p.Formula(event)
					if f.Kind != scoring.Field {
						continue
					}
					prev := -1
					for _, raw := range marks {
						pts := engine.ScoreProfile(event, raw, p)
						So(pts, ShouldBeGreaterThanOrEqualTo, prev)
						prev = pts
					}
					So(prev, ShouldEqual, math.MaxInt32)
				}
			}
			So(engine.Score("Shot Put", "4e7", scoring.Men), ShouldBeGreaterThanOrEqualTo, engine.Score("Shot Put", "1e7", scoring.Men))
		})

		Convey("Then A and C are always positive and kinds are set", func() {
			for _, p := range scoring.Profiles() {
				So(p.Events(), ShouldNotBeEmpty)
				for _, event := range p.Events() {
					f, ok := p.Formula(event)
					So(ok, ShouldBeTrue)
					So(f.A, ShouldBeGreaterThan, 0)
					So(f.C, ShouldBeGreaterThan, 0)
					So(f.Kind, ShouldBeIn, scoring.Track, scoring.Field)
				}
			}
		})

		Convey("Then garbage never produces a negative score", func() {
			inputs := []string{"", ".", "..", ":", "::", "-", "+", "e5", "1e", "NaN", "Infinity", "-Infinity",
				"0:0", "99:99:99", "1,5", "١٢", "\x00", strings.Repeat("9", 400), "9e999", "-0", "0.0.0"}
			for _, g := range []scoring.Gender{scoring.Men, scoring.Women} {
				for _, p := range scoring.Candidates(g) {
					for _, event := range p.Events() {
						for _, raw := range inputs {
							So(engine.Score(event, raw, g), ShouldBeGreaterThanOrEqualTo, 0)
						}
					}
				}
			}
		})
	})
}

func TestEngine_Options(t *testing.T) {
	Convey("Given an engine with a logger and observer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)
		So(logger.SetLevelString("debug"), ShouldBeNil)
		defer func() { _ = logger.SetLevelString("info") }()

		observer := &recordingObserver{}
		engine := scoring.NewEngine(
			scoring.WithLogger(logger.Named("scoring")),
			scoring.WithObserver(observer),
		)

		Convey("When scoring valid and invalid marks", func() {
			engine.Score("100m", "10.83", scoring.Men)
			engine.Score("100m", "abc", scoring.Men)
			engine.Score("Hammer Throw", "70", scoring.Men)

			Convey("Then the observer sees every evaluation", func() {
				So(observer.reasons, ShouldResemble, []string{"scored", "malformed", "unknown_event"})
				So(observer.points, ShouldResemble, []int{899, 0, 0})
			})

			Convey("And the reasons appear in the diagnostic log", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "reason=malformed")
				So(out, ShouldContainSubstring, "event not in any scoring table")
			})
		})

		Convey("When nil options are passed", func() {
			e := scoring.NewEngine(scoring.WithLogger(nil), scoring.WithObserver(nil))

			Convey("Then the engine still scores", func() {
				So(e.Score("100m", "10.83", scoring.Men), ShouldEqual, 899)
			})
		})
	})
}

func TestEngine_Concurrent(t *testing.T) {
	Convey("Given a shared engine", t, func() {
		engine := scoring.NewEngine()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		Convey("When scoring from many goroutines", func() {
			results := make(chan int, 64)
			var wg sync.WaitGroup
			for i := 0; i < 64; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					select {
					case <-ctx.Done():
					case results <- engine.Score("Long Jump", "7.80", scoring.Men):
					}
				}()
			}
			wg.Wait()
			close(results)

			Convey("Then all results agree", func() {
				for r := range results {
					So(r, ShouldEqual, 1010)
				}
			})
		})
	})
}
