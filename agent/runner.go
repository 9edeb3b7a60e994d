package agent

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is anything advanced by a Runner.
type Ticker interface {
	Tick() bool
}

// Runner ticks a set of agents on a fixed interval, independent of the
// frame rate.
type Runner struct {
	interval time.Duration
	paused   atomic.Bool

	mu      sync.Mutex
	tickers []Ticker
}

func NewRunner(interval time.Duration, tickers ...Ticker) *Runner {
	if interval <= 0 {
		interval = 30 * time.Millisecond
	}
	return &Runner{interval: interval, tickers: append([]Ticker(nil), tickers...)}
}

func (r *Runner) Add(t Ticker) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickers = append(r.tickers, t)
}

// SetPaused stops or resumes ticking without ending Run.
func (r *Runner) SetPaused(paused bool) {
	r.paused.Store(paused)
}

func (r *Runner) Paused() bool {
	return r.paused.Load()
}

// Step ticks every agent once, regardless of pause state.
func (r *Runner) Step() {
	r.mu.Lock()
	tickers := append([]Ticker(nil), r.tickers...)
	r.mu.Unlock()
	for _, t := range tickers {
		t.Tick()
	}
}

// Run ticks until ctx is done and returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if r.paused.Load() {
				continue
			}
			r.Step()
		}
	}
}
