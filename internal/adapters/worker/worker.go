// Package worker scores batches of marks sheets on a fixed pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/multicalc/internal/adapters/sheet"
	"github.com/okian/multicalc/internal/domain/model"
	"github.com/okian/multicalc/internal/domain/types"
	"github.com/okian/multicalc/pkg/logger"
)

// Loader reads one sheet. sheet.Load is the default.
type Loader func(ctx context.Context, path string) (*sheet.Sheet, error)

// Tallier turns a discipline and its marks into a scorecard.
// *service.Service satisfies it.
type Tallier interface {
	Tally(ctx context.Context, d model.Discipline, marks map[string]string) (types.Card, error)
}

// Result is the outcome for one sheet path. Card is only meaningful when Err
// is nil.
type Result struct {
	Path string
	Card types.Card
	Err  error
}

// Pool fans sheet paths out to a fixed number of workers.
type Pool struct {
	size   int
	tally  Tallier
	load   Loader
	logger logger.Logger
}

// NewPool creates a pool. Without WithSize it runs one worker per CPU.
func NewPool(t Tallier, opts ...Option) *Pool {
	p := &Pool{
		size:   runtime.NumCPU(),
		tally:  t,
		load:   sheet.Load,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Size reports the configured worker count.
func (p *Pool) Size() int { return p.size }

// Run scores every path and returns one Result per path, in input order.
// Paths not yet handed to a worker when ctx ends carry ctx.Err().
func (p *Pool) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	workers := min(p.size, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(log logger.Logger) {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.process(ctx, log, paths[idx])
			}
		}(p.logger.Named("worker-" + strconv.Itoa(i)))
	}

	sent := 0
feed:
	for sent < len(paths) {
		select {
		case jobs <- sent:
			sent++
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := sent; i < len(paths); i++ {
		results[i] = Result{Path: paths[i], Err: ctx.Err()}
	}
	return results
}

// process handles a single sheet.
func (p *Pool) process(ctx context.Context, log logger.Logger, path string) Result {
	start := time.Now()
	res := Result{Path: path}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	s, err := p.load(ctx, path)
	if err != nil {
		log.Error(ctx, "sheet load failed", logger.String("path", path), logger.Error(err))
		res.Err = err
		return res
	}

	card, err := p.tally.Tally(ctx, s.Discipline, s.Marks)
	if err != nil {
		log.Error(ctx, "sheet tally failed", logger.String("path", path), logger.Error(err))
		res.Err = fmt.Errorf("tally %s: %w", path, err)
		return res
	}
	card.ID = s.ID
	card.Athlete = s.Athlete
	res.Card = card

	log.Debug(ctx, "sheet scored",
		logger.String("path", path),
		logger.Int("total", card.Total),
		logger.Int("latency_ms", int(time.Since(start).Milliseconds())),
	)
	return res
}
