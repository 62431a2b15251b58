// Package daemon runs the booking-check polling loop.
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keepgenius/jira-notify/internal/booking"
	"github.com/keepgenius/jira-notify/internal/constants"
	"github.com/keepgenius/jira-notify/internal/logging"
)

// Checker runs one booking check for the calendar day of t.
type Checker interface {
	Check(ctx context.Context, t time.Time) booking.Result
}

// Presenter shows the reminder and blocks until it is dismissed or ctx ends.
type Presenter interface {
	Present(ctx context.Context, res booking.Result) error
}

// Notifier receives loop events for desktop notifications. Optional.
type Notifier interface {
	Booked(res booking.Result)
	Reminder(res booking.Result)
}

// Config holds loop configuration.
type Config struct {
	// PollInterval is the pause after a reminder before checking again.
	PollInterval time.Duration

	// IdleTick is how often the loop looks for a new day once today is booked.
	IdleTick time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Notifier is told about positive results and reminders. May be nil.
	Notifier Notifier

	// OnStatus is called with a fresh snapshot after every phase change. May be nil.
	OnStatus func(Status)
}

// DefaultConfig returns a loop configuration with the standard timings.
func DefaultConfig() *Config {
	return &Config{
		PollInterval: constants.DefaultPollInterval,
		IdleTick:     constants.DefaultIdleTick,
	}
}

// Loop is the polling state machine: once per calendar day it checks for booked
// hours; when none are found it shows the reminder, pauses, and checks again.
type Loop struct {
	cfg       Config
	checker   Checker
	presenter Presenter
	state     *State
	logger    *logging.Logger

	running bool
	mu      sync.Mutex
}

// NewLoop creates a loop. A nil cfg uses DefaultConfig.
func NewLoop(cfg *Config, checker Checker, presenter Presenter, logger *logging.Logger) *Loop {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.PollInterval <= 0 {
		c.PollInterval = constants.DefaultPollInterval
	}
	if c.IdleTick <= 0 {
		c.IdleTick = constants.DefaultIdleTick
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Sleep == nil {
		c.Sleep = sleepContext
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Loop{
		cfg:       c,
		checker:   checker,
		presenter: presenter,
		state:     NewState(),
		logger:    logger,
	}
}

// Run executes the loop until ctx is cancelled. It returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("polling loop is already running")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	l.logger.Info().
		Str("poll_interval", l.cfg.PollInterval.String()).
		Str("idle_tick", l.cfg.IdleTick.String()).
		Msg("Polling loop started")

	for {
		if ctx.Err() != nil {
			l.logger.Info().Msg("Polling loop stopped")
			return nil
		}

		wait := l.step(ctx)

		if err := l.cfg.Sleep(ctx, wait); err != nil {
			l.logger.Info().Msg("Polling loop stopped")
			return nil
		}
	}
}

// RunOnce performs a single cycle without the trailing pause and returns the
// resulting status. Useful for cron-style use and tests.
func (l *Loop) RunOnce(ctx context.Context) Status {
	l.logger.Info().Msg("Running single check cycle")
	l.step(ctx)
	return l.Status()
}

// Status returns the current loop status.
func (l *Loop) Status() Status {
	return l.state.Snapshot()
}

// State exposes the loop state for inspection.
func (l *Loop) State() *State {
	return l.state
}

// step runs one Idle → Checking → (Idle | ReminderActive → Idle) cycle and
// returns how long to wait before the next one.
func (l *Loop) step(ctx context.Context) time.Duration {
	now := l.cfg.Clock()
	today := booking.FormatDate(now)

	if !l.state.NeedsCheck(today) {
		l.state.setNextCheck(now.Add(l.cfg.IdleTick))
		return l.cfg.IdleTick
	}

	checkLogger := l.logger.Child(func(c zerolog.Context) zerolog.Context {
		return c.Str("check_id", uuid.NewString())
	})
	ctx = checkLogger.WithContext(ctx)

	l.setPhase(Checking)
	checkLogger.Debug().Str("date", today).Msg("Checking booked hours")
	res := l.checker.Check(ctx, now)

	// Results from a cancelled context are not trustworthy
	if ctx.Err() != nil {
		l.setPhase(Idle)
		return 0
	}

	l.state.recordResult(res, now)

	if res.Booked() {
		l.state.markChecked(today)
		next := now.Add(l.cfg.IdleTick)
		l.state.setNextCheck(next)
		l.setPhase(Idle)

		checkLogger.Info().
			Str("date", today).
			Str("outcome", res.Outcome.String()).
			Str("message", res.Message).
			Msg("No reminder needed today")
		if l.cfg.Notifier != nil && res.Outcome == booking.Booked {
			l.cfg.Notifier.Booked(res)
		}
		return l.cfg.IdleTick
	}

	checkLogger.Warn().
		Str("date", today).
		Str("outcome", res.Outcome.String()).
		Str("message", res.Message).
		Msg("Showing reminder")

	l.setPhase(ReminderActive)
	l.state.recordReminder()
	if l.cfg.Notifier != nil {
		l.cfg.Notifier.Reminder(res)
	}
	if err := l.presenter.Present(ctx, res); err != nil {
		checkLogger.Error().Err(err).Msg("Reminder could not be shown")
	}

	// LastCheckedDay stays untouched: the same day is checked again after the pause
	l.state.setNextCheck(l.cfg.Clock().Add(l.cfg.PollInterval))
	l.setPhase(Idle)
	checkLogger.Info().Str("pause", l.cfg.PollInterval.String()).Msg("Reminder closed, pausing before next check")
	return l.cfg.PollInterval
}

func (l *Loop) setPhase(p Phase) {
	l.state.setPhase(p)
	if l.cfg.OnStatus != nil {
		l.cfg.OnStatus(l.state.Snapshot())
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
