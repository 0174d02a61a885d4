package etl

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrRunInProgress is returned when a refresh is requested while another run
// holds the staging and final tables.
var ErrRunInProgress = errors.New("refresh already in progress")

// RunGuard serializes refresh runs. The staging and final tables assume a
// single writer, so a concurrent trigger is rejected rather than queued.
type RunGuard struct {
	busy atomic.Bool
	run  func(ctx context.Context) error
}

func NewRunGuard(run func(ctx context.Context) error) *RunGuard {
	return &RunGuard{run: run}
}

func (g *RunGuard) Refresh(ctx context.Context) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer g.busy.Store(false)
	return g.run(ctx)
}
