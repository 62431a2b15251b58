// Package notify provides cross-platform desktop notifications for jira-notify.
// It uses github.com/gen2brain/beeep for cross-platform notification support.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/keepgenius/jira-notify/internal/booking"
	"github.com/keepgenius/jira-notify/internal/config"
	"github.com/keepgenius/jira-notify/internal/constants"
	"github.com/keepgenius/jira-notify/internal/logging"
)

// Notifier handles desktop notifications.
type Notifier struct {
	logger *logging.Logger
	cfg    Config
	mu     sync.RWMutex

	// Replaceable in tests.
	notify func(title, message string) error
	alert  func(title, message string) error
	beep   func() error
}

// Config holds notification configuration.
type Config struct {
	// Enabled determines if notifications are sent.
	Enabled bool

	// ShowBooked notifies once a day when hours are found.
	ShowBooked bool

	// ShowReminder adds a notification alongside the reminder window.
	ShowReminder bool
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		ShowBooked:   true,
		ShowReminder: false, // the window is loud enough
	}
}

// FromSettings converts the [notifications] section of the settings file.
func FromSettings(s config.NotificationSettings) *Config {
	return &Config{
		Enabled:      s.Enabled,
		ShowBooked:   s.ShowBooked,
		ShowReminder: s.ShowReminder,
	}
}

// NewNotifier creates a new notifier with the given configuration.
func NewNotifier(cfg *Config, logger *logging.Logger) *Notifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Notifier{
		logger: logger,
		cfg:    *cfg,
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
		beep:   func() error { return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration) },
	}
}

// SetEnabled enables or disables notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cfg.Enabled = enabled
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg.Enabled
}

func (n *Notifier) config() Config {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.cfg
}

// Booked sends a notification after hours were found for the day.
func (n *Notifier) Booked(res booking.Result) {
	cfg := n.config()
	if !cfg.Enabled || !cfg.ShowBooked {
		return
	}

	message := fmt.Sprintf("Hours booked for %s (%d worklog(s)). No reminder today.", res.Date, res.Count)
	if err := n.notify(constants.TrayTitle, message); err != nil {
		n.logger.Warn().Err(err).Str("date", res.Date).Msg("Failed to send booked notification")
	}
}

// Reminder sends a notification when a reminder fires.
func (n *Notifier) Reminder(res booking.Result) {
	cfg := n.config()
	if !cfg.Enabled || !cfg.ShowReminder {
		return
	}

	message := fmt.Sprintf("No hours booked for %s.\n%s", res.Date, truncate(res.Message, 100))
	if err := n.notify(constants.TrayTitle, message); err != nil {
		n.logger.Warn().Err(err).Str("date", res.Date).Msg("Failed to send reminder notification")
	}
}

// Alert sends an alert notification (error level) with a beep.
// Falls back to a plain notification when the platform has no alert style.
func (n *Notifier) Alert(message string) {
	if !n.IsEnabled() {
		return
	}

	title := constants.AppName

	if err := n.alert(title, message); err != nil {
		if err := n.notify(title, message); err != nil {
			n.logger.Error().Err(err).Str("message", message).Msg("Failed to send alert notification")
		}
	}
}

// Beep sends an audible beep.
func (n *Notifier) Beep() {
	if !n.IsEnabled() {
		return
	}
	_ = n.beep()
}

// HeadlessPresenter stands in for the reminder window when there is no GUI:
// it raises a desktop alert with the reminder text and link and returns at once.
type HeadlessPresenter struct {
	notifier *Notifier
	message  string
	link     string
}

// NewHeadlessPresenter creates a presenter showing message and link.
// The alert is sent even if routine notifications are disabled.
func NewHeadlessPresenter(n *Notifier, message, link string) *HeadlessPresenter {
	alerting := NewNotifier(&Config{Enabled: true}, n.logger)
	alerting.notify, alerting.alert, alerting.beep = n.notify, n.alert, n.beep
	return &HeadlessPresenter{notifier: alerting, message: message, link: link}
}

// Present implements the polling loop's Presenter.
func (p *HeadlessPresenter) Present(ctx context.Context, res booking.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.notifier.Alert(p.message + "\n\n" + p.link)
	p.notifier.Beep()
	return nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
