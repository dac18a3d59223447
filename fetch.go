package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/oops"
)

// Retry policy defaults.
const (
	defaultMaxAttempts = 25
	defaultBaseDelay   = 200 * time.Millisecond

	// statusNotReady is what the site answers before the input unlocks.
	statusNotReady = http.StatusNotFound
)

// errRetriesExhausted is returned once every attempt came back not ready.
var errRetriesExhausted = errors.New("retries exhausted")

type getter interface {
	get(ctx context.Context, path string) ([]byte, error)
}

type dropWaiter interface {
	waitForDrop(ctx context.Context) error
}

// fetcher pulls a resource that may not be published yet.
type fetcher struct {
	client      getter
	waiter      dropWaiter // nil skips the release wait
	maxAttempts int
	baseDelay   time.Duration
	log         *logger
}

// fetch returns the body of path. A not-ready answer triggers the release
// wait the first time it is seen; every retry is preceded by attempt×baseDelay.
// Any other failure is returned as is.
func (f *fetcher) fetch(ctx context.Context, path string) ([]byte, error) {
	waited := false
	for attempt := 1; ; attempt++ {
		body, err := f.client.get(ctx, path)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, cancelled(ctx)
		}
		var ae *apiError
		if !errors.As(err, &ae) || ae.StatusCode != statusNotReady {
			return nil, err
		}
		if attempt >= f.maxAttempts {
			return nil, oops.With("path", path, "attempts", attempt).Wrap(errRetriesExhausted)
		}

		if !waited && f.waiter != nil {
			waited = true
			f.log.warn("couldn't retrieve input, waiting for the release")
			if err := f.waiter.waitForDrop(ctx); err != nil {
				if ctx.Err() != nil {
					return nil, cancelled(ctx)
				}
				return nil, err
			}
		}

		delay := time.Duration(attempt) * f.baseDelay
		f.log.infof("not ready (attempt %d/%d), retrying in %s", attempt, f.maxAttempts, delay)
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, cancelled(ctx)
		}
	}
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("%w: %w", errCancelled, ctx.Err())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
