// Package gui provides the tray icon and reminder window for jira-notify.
package gui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/keepgenius/jira-notify/internal/constants"
	"github.com/keepgenius/jira-notify/internal/daemon"
	"github.com/keepgenius/jira-notify/internal/logging"
)

// ErrNoDisplay is returned when the GUI cannot start on Linux without a display.
var ErrNoDisplay = errors.New("GUI mode requires a display: DISPLAY and WAYLAND_DISPLAY are not set")

// exitProcess ends the program from the tray. Replaced in tests.
var exitProcess = os.Exit

// Options configures Run.
type Options struct {
	Reminder ReminderOptions

	// Loop timing and hooks. OnStatus is chained with the tray update.
	Loop *daemon.Config

	Checker daemon.Checker

	// IconPath is the tray icon file; a generated icon is used when missing.
	IconPath string

	Logger *logging.Logger
}

// CheckDisplay reports ErrNoDisplay on Linux when no display server is reachable.
func CheckDisplay() error {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return ErrNoDisplay
	}
	return nil
}

// Run starts the tray, runs the polling loop in the background and blocks in
// the fyne event loop until ctx is cancelled or Exit is chosen.
func Run(ctx context.Context, opts Options) error {
	if opts.Checker == nil {
		return fmt.Errorf("no checker configured")
	}
	if err := CheckDisplay(); err != nil {
		return err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	a := app.NewWithID(constants.AppID)
	a.Settings().SetTheme(&notifyTheme{})

	// Closing the master window quits fyne, so the reminders must never be it.
	// This one stays hidden for the life of the app.
	master := a.NewWindow(constants.AppName)
	master.SetMaster()
	master.SetCloseIntercept(master.Hide)

	loop := newLoop(a, opts, logger)

	a.Lifecycle().SetOnStarted(func() {
		logger.Debug().Msg("GUI started, launching polling loop")
		go func() {
			if err := loop.Run(ctx); err != nil {
				logger.Errorf("Polling loop failed: %v", err)
			}
			fyne.Do(a.Quit)
		}()
	})

	a.Run()
	logger.Info().Msg("GUI stopped")
	return nil
}

// newLoop wires the presenter and tray into a polling loop on a.
func newLoop(a fyne.App, opts Options, logger *logging.Logger) *daemon.Loop {
	presenter := NewReminderPresenter(a, opts.Reminder, logger)

	t := newTray(func() {
		logger.Info().Msg("Exit chosen from tray")
		_ = logger.Close()
		exitProcess(0)
	})
	if !t.install(a, trayIcon(opts.IconPath)) {
		logger.Warnf("System tray not supported on %s; use Ctrl+C to stop", runtime.GOOS)
	}

	cfg := daemon.DefaultConfig()
	if opts.Loop != nil {
		c := *opts.Loop
		cfg = &c
	}
	next := cfg.OnStatus
	cfg.OnStatus = func(s daemon.Status) {
		t.update(s)
		if next != nil {
			next(s)
		}
	}

	return daemon.NewLoop(cfg, opts.Checker, presenter, logger)
}
