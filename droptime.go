package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/samber/oops"
)

const (
	// defaultReleaseCron is midnight EST, when a new puzzle unlocks.
	defaultReleaseCron = "0 5 * * *"

	// dropPadding is added to local estimates; the site clock runs about
	// this much ahead of ours.
	dropPadding = 30 * time.Second
)

// reServerETA matches the countdown embedded in the site's front page.
var reServerETA = regexp.MustCompile(`var server_eta\s*=\s*(-?\d+)\s*;`)

// errNoCountdown is returned when a successful front page lacks the marker.
var errNoCountdown = errors.New("countdown marker not found")

// dropEstimator works out how long until the next puzzle unlocks.
type dropEstimator struct {
	client  *apiClient
	release string
	now     func() time.Time
	log     *logger
}

func newDropEstimator(client *apiClient, release string, log *logger) (*dropEstimator, error) {
	if err := validateRelease(release); err != nil {
		return nil, err
	}
	return &dropEstimator{client: client, release: release, now: time.Now, log: log}, nil
}

// validateRelease accepts only 5-field cron expressions.
func validateRelease(expr string) error {
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return oops.With("release", expr).Errorf("invalid release schedule: want a 5-field cron expression")
	}
	return nil
}

// secondsUntilDrop asks the site for its countdown and falls back to the
// local clock if the site does not answer. The result may be negative.
func (e *dropEstimator) secondsUntilDrop(ctx context.Context) (int, error) {
	body, err := e.client.get(ctx, "/")
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		e.log.warnf("countdown unavailable (%v), estimating from local clock", err)
		return e.estimate()
	}
	return parseServerETA(body)
}

// parseServerETA extracts N from "var server_eta = N;".
func parseServerETA(body []byte) (int, error) {
	m := reServerETA.FindSubmatch(body)
	if m == nil {
		return 0, errNoCountdown
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, fmt.Errorf("parse server_eta: %w", err)
	}
	return n, nil
}

// estimate is the padded number of seconds to the next release tick in UTC.
func (e *dropEstimator) estimate() (int, error) {
	now := e.now().UTC().Truncate(time.Second)
	next, err := gronx.NextTickAfter(e.release, now, false)
	if err != nil {
		return 0, oops.With("release", e.release).Wrapf(err, "next release tick")
	}
	return int((next.Sub(now) + dropPadding) / time.Second), nil
}

// dropTarget is the wall-clock time of the next release.
func (e *dropEstimator) dropTarget(ctx context.Context) (time.Time, error) {
	secs, err := e.secondsUntilDrop(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return e.now().Add(time.Duration(secs) * time.Second), nil
}
