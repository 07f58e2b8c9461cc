// Package controller drives the poll loop: normal cadence while healthy,
// short fixed backoff on failure, fatal stop when the consecutive-failure
// budget is exhausted, immediate clean stop on cancellation.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"trackcast/errs"
	"trackcast/poller"
	"trackcast/sentry"
)

const (
	// maxConsecutiveFailures is the failure budget before the loop gives up.
	maxConsecutiveFailures = 3
	// retryDelay is the fixed pause before retrying a failed cycle.
	retryDelay = 5 * time.Second
)

// ErrRetriesExhausted is returned by Run when consecutive failures hit the
// budget. The last cycle error is wrapped alongside it.
var ErrRetriesExhausted = errors.New("consecutive poll failures exhausted retry budget")

type state int

const (
	stateRunning state = iota
	stateBackoff
	stateStopped
)

// PollFunc runs one poll cycle.
type PollFunc func(ctx context.Context) (poller.Outcome, error)

type Controller struct {
	poll     PollFunc
	interval time.Duration

	// Overridable for tests.
	retryDelay  time.Duration
	maxFailures int
}

func New(poll PollFunc, interval time.Duration) *Controller {
	return &Controller{
		poll:        poll,
		interval:    interval,
		retryDelay:  retryDelay,
		maxFailures: maxConsecutiveFailures,
	}
}

// Run loops until ctx is cancelled (returns nil: a signal is a normal
// shutdown) or maxFailures consecutive cycles fail (returns the last
// error: the process should exit non-zero).
func (c *Controller) Run(ctx context.Context) error {
	st := stateRunning
	failures := 0
	var lastErr error

	for {
		switch st {
		case stateRunning, stateBackoff:
			if ctx.Err() != nil {
				log.Info("Shutting down gracefully...")
				return nil
			}

			outcome, err := c.poll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					log.Info("Shutting down gracefully...")
					return nil
				}
				failures++
				log.Warnf("Poll cycle failed (%s, attempt %d/%d): %v",
					errs.KindOf(err), failures, c.maxFailures, err)
				if failures >= c.maxFailures {
					st = stateStopped
					lastErr = err
					continue
				}
				st = stateBackoff
				if !c.wait(ctx, c.retryDelay) {
					log.Info("Shutting down gracefully...")
					return nil
				}
				continue
			}

			failures = 0
			st = stateRunning
			if !c.wait(ctx, c.cycleDelay(outcome)) {
				log.Info("Shutting down gracefully...")
				return nil
			}

		case stateStopped:
			sentry.ReportError(lastErr)
			return fmt.Errorf("%w after %d consecutive failures: %w",
				ErrRetriesExhausted, c.maxFailures, lastErr)
		}
	}
}

// cycleDelay is the post-cycle sleep: the configured interval while a track
// is playing, doubled while the account is idle to cut request volume.
func (c *Controller) cycleDelay(outcome poller.Outcome) time.Duration {
	if outcome == poller.OutcomeNothingPlaying {
		return 2 * c.interval
	}
	return c.interval
}

// wait sleeps for d, honoring cancellation. False means ctx was cancelled.
func (c *Controller) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
