package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// errCancelled is returned when the user interrupts a wait.
var errCancelled = errors.New("wait cancelled")

var spinnerFrames = []string{"⢿", "⣻", "⣽", "⣾", "⣷", "⣯", "⣟", "⡿"}

// countdown blocks until a target time while animating the time left.
type countdown struct {
	out     io.Writer
	now     func() time.Time
	refresh time.Duration
}

func newCountdown(out io.Writer) *countdown {
	return &countdown{out: out, now: time.Now, refresh: 100 * time.Millisecond}
}

// wait returns when target is reached or ctx is done. A target that is not in
// the future returns at once without drawing anything.
func (c *countdown) wait(ctx context.Context, target time.Time) error {
	start := c.now()
	remaining := target.Sub(start)
	if remaining <= 0 {
		return nil
	}

	total := remaining.Milliseconds()
	if total < 1 {
		total = 1
	}
	// Auto refresh keeps the frames coming when stdout is piped.
	p := mpb.New(
		mpb.WithOutput(c.out),
		mpb.WithRefreshRate(c.refresh),
		mpb.WithWidth(1),
		mpb.WithAutoRefresh(),
	)
	bar := p.New(total,
		mpb.SpinnerStyle(spinnerFrames...),
		mpb.PrependDecorators(
			decor.OnAbort(
				decor.OnComplete(
					decor.Any(func(decor.Statistics) string {
						return waitMessage(target.Sub(c.now()))
					}),
					"Done!",
				),
				"Let's try again later",
			),
		),
	)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(c.refresh)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// Completion is left to the caller.
				elapsed := c.now().Sub(start).Milliseconds()
				if elapsed >= total {
					elapsed = total - 1
				}
				bar.SetCurrent(elapsed)
			}
		}
	}()

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	var err error
	select {
	case <-ctx.Done():
		err = fmt.Errorf("%w: %w", errCancelled, ctx.Err())
	case <-timer.C:
	}

	close(stop)
	<-done
	if err != nil {
		bar.Abort(false)
	} else {
		bar.SetCurrent(total)
	}
	p.Wait()
	return err
}

// waitMessage renders d at hour, minute or second granularity depending on
// its size.
func waitMessage(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs > 3600:
		return fmt.Sprintf("Waiting %d hours %d minutes %d seconds", secs/3600, secs%3600/60, secs%60)
	case secs > 60:
		return fmt.Sprintf("Waiting %d minutes %d seconds", secs/60, secs%60)
	default:
		return fmt.Sprintf("Waiting %d seconds", secs)
	}
}

// releaseWait waits for the next puzzle release.
type releaseWait struct {
	est *dropEstimator
	cd  *countdown
	log *logger
}

func (w *releaseWait) waitForDrop(ctx context.Context) error {
	target, err := w.est.dropTarget(ctx)
	if err != nil {
		return err
	}
	w.log.infof("input not released yet, waiting until %s", target.Local().Format(time.Kitchen))
	return w.cd.wait(ctx, target)
}
