package progress

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestCountdownFinishes(t *testing.T) {
	var out bytes.Buffer
	c := NewCountdown(&out)
	c.tick = 10 * time.Millisecond

	start := time.Now()
	if err := c.Sleep(context.Background(), 50*time.Millisecond); err != nil {
		t.Fatalf("Sleep returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Sleep returned early after %v", elapsed)
	}
	if out.Len() == 0 {
		t.Error("Expected the bar to be rendered")
	}
}

func TestCountdownCancelled(t *testing.T) {
	var out bytes.Buffer
	c := NewCountdown(&out)
	c.tick = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := c.Sleep(ctx, time.Hour)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestCountdownShortWaitIsSilent(t *testing.T) {
	var out bytes.Buffer
	c := NewCountdown(&out)
	c.MinDuration = time.Minute

	if err := c.Sleep(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatalf("Sleep returned error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output for a short wait, got %q", out.String())
	}
}
