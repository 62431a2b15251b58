// Package progress renders the wait between booking checks on a terminal.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Countdown is a polling loop sleeper that draws a progress bar while it waits.
type Countdown struct {
	out  io.Writer
	tick time.Duration

	// MinDuration is the shortest wait that gets a bar; shorter waits sleep silently.
	MinDuration time.Duration
}

// NewCountdown creates a countdown writing to out (stderr when nil).
func NewCountdown(out io.Writer) *Countdown {
	if out == nil {
		out = os.Stderr
	}
	return &Countdown{out: out, tick: time.Second}
}

// Sleep waits for d or until ctx is done, matching the polling loop's Sleep hook.
func (c *Countdown) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if d < c.MinDuration {
		return sleep(ctx, d)
	}

	total := int64(d / time.Second)
	if total < 1 {
		total = 1
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(fmt.Sprintf("Next check in %s", d.Round(time.Second))),
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)

	deadline := time.Now().Add(d)
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			_ = bar.Finish()
			return nil
		}

		select {
		case <-ctx.Done():
			_ = bar.Exit()
			return ctx.Err()
		case <-time.After(remaining):
			_ = bar.Finish()
			return nil
		case <-ticker.C:
			_ = bar.Set64(int64((d - time.Until(deadline)) / time.Second))
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
