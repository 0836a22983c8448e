package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AbdelazizMoustafa10m/verity/internal/result"
)

// errStopped cancels the worker group once fail-fast trips.
var errStopped = errors.New("runner: stopped after first failure")

// Summary aggregates the reports of a RunAll call. Reports keep the order of
// the input paths; files never started because of fail-fast are absent.
type Summary struct {
	Reports  []*Report
	Stopped  bool
	Duration time.Duration
}

// Counts returns the number of reports per status.
func (s *Summary) Counts() map[result.Status]int {
	out := make(map[result.Status]int)
	for _, rep := range s.Reports {
		out[rep.Status]++
	}
	return out
}

// Assertions returns the total assertion count over all reports.
func (s *Summary) Assertions() int {
	n := 0
	for _, rep := range s.Reports {
		n += rep.Assertions
	}
	return n
}

// Failed reports whether any scenario failed or errored.
func (s *Summary) Failed() bool {
	for _, rep := range s.Reports {
		if isFailure(rep.Status) {
			return true
		}
	}
	return false
}

func isFailure(st result.Status) bool {
	return st == result.StatusFailed || st == result.StatusError
}

// RunAll runs every path. Files are independent and run concurrently up to
// the configured limit; the steps of one file always run sequentially.
// A scenario failing never aborts the others unless fail-fast is on. The
// returned error is non-nil only when ctx is cancelled.
func (r *Runner) RunAll(ctx context.Context, paths []string) (*Summary, error) {
	start := time.Now()
	reports := make([]*Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	var mu sync.Mutex
	stopped := false

	r.logger.Debug("running scenarios", "files", len(paths), "concurrency", r.concurrency)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			rep := r.RunFile(gctx, path)

			mu.Lock()
			reports[i] = rep
			trip := r.failFast && isFailure(rep.Status) && !stopped
			if trip {
				stopped = true
			}
			mu.Unlock()

			if trip {
				return errStopped
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, errStopped) {
		return nil, fmt.Errorf("runner: scenario workers: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	sum := &Summary{Stopped: stopped, Duration: time.Since(start)}
	for _, rep := range reports {
		if rep != nil {
			sum.Reports = append(sum.Reports, rep)
		}
	}
	return sum, nil
}
