package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/keepgenius/jira-notify/internal/config"
	"github.com/keepgenius/jira-notify/internal/constants"
	"github.com/keepgenius/jira-notify/internal/daemon"
	"github.com/keepgenius/jira-notify/internal/gui"
	"github.com/keepgenius/jira-notify/internal/notify"
	"github.com/keepgenius/jira-notify/internal/pathutil"
	"github.com/keepgenius/jira-notify/internal/progress"
)

// runOptions holds the 'run' flags. Zero durations fall back to the settings file.
type runOptions struct {
	headless     bool
	once         bool
	countdown    bool
	pollInterval time.Duration
	idleTick     time.Duration
}

// newRunCmd creates the 'run' command.
func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the tray app and the daily booking check",
		Long: `Start Jira Notify. Once per day it checks whether hours are booked in
Tempo. If not, the reminder window opens; after it is closed the check is
repeated every poll interval until hours are booked.

Weekends are skipped without contacting Jira or Tempo.

Press Ctrl+C, or choose Exit from the tray menu, to stop.

Examples:
  # Tray app with reminder window
  jira-notify run

  # No window: desktop alerts only, with a countdown between checks
  jira-notify run --headless --countdown

  # One check, print the resulting status and exit (useful for cron jobs)
  jira-notify run --once

  # Re-check every 2 minutes while not booked
  jira-notify run --poll-interval 2m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifier(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Run without a window; reminders are desktop alerts")
	cmd.Flags().BoolVar(&opts.once, "once", false, "Run a single check cycle and exit (implies --headless)")
	cmd.Flags().BoolVar(&opts.countdown, "countdown", false, "Show a countdown until the next check (headless, terminal only)")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", 0, "Pause after a reminder before checking again (default from settings, 5m)")
	cmd.Flags().DurationVar(&opts.idleTick, "idle-tick", 0, "How often to look for a new day once booked (default from settings, 1m)")

	return cmd
}

// loopConfig merges flags over settings and validates the result.
func loopConfig(s *config.Settings, opts runOptions) (*daemon.Config, error) {
	cfg := &daemon.Config{
		PollInterval: s.PollInterval(),
		IdleTick:     s.IdleTick(),
	}
	if opts.pollInterval != 0 {
		cfg.PollInterval = opts.pollInterval
	}
	if opts.idleTick != 0 {
		cfg.IdleTick = opts.idleTick
	}

	if cfg.PollInterval < constants.MinPollInterval || cfg.PollInterval > constants.MaxPollInterval {
		return nil, fmt.Errorf("poll interval must be between %s and %s", constants.MinPollInterval, constants.MaxPollInterval)
	}
	if cfg.IdleTick < constants.MinIdleTick || cfg.IdleTick > constants.MaxIdleTick {
		return nil, fmt.Errorf("idle tick must be between %s and %s", constants.MinIdleTick, constants.MaxIdleTick)
	}
	return cfg, nil
}

func runNotifier(cmd *cobra.Command, opts runOptions) error {
	logger := GetLogger()

	s, err := requireSettings()
	if err != nil {
		return err
	}
	creds, err := config.LoadCredentials(nil, true)
	if err != nil {
		return err
	}
	media, err := pathutil.ResolveAbsolutePath(creds.MediaFilePath)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", config.EnvMediaFilePath, err)
	}
	if _, err := os.Stat(media); err != nil {
		logger.Warn().Err(err).Str("media", media).Msg("Reminder media not found, the reminder will show without it")
	}
	checker, err := newChecker(s, creds)
	if err != nil {
		return err
	}
	loopCfg, err := loopConfig(s, opts)
	if err != nil {
		return err
	}

	notifier := notify.NewNotifier(notify.FromSettings(s.Notifications), logger)
	loopCfg.Notifier = notifier

	ctx := cmd.Context()

	if !opts.headless && !opts.once {
		logger.Info().
			Str("poll_interval", loopCfg.PollInterval.String()).
			Str("media", media).
			Msg("Starting tray app")
		return gui.Run(ctx, gui.Options{
			Reminder: gui.ReminderOptions{
				Title:         s.Reminder.Title,
				Message:       s.Reminder.Message,
				Link:          s.Reminder.Link,
				MediaPath:     media,
				PlayerCommand: s.Reminder.PlayerCommand,
			},
			Loop:     loopCfg,
			Checker:  checker,
			IconPath: constants.TrayIconPath,
			Logger:   logger,
		})
	}

	if opts.countdown && isTerminal(cmd.ErrOrStderr()) {
		countdown := progress.NewCountdown(cmd.ErrOrStderr())
		countdown.MinDuration = loopCfg.PollInterval
		loopCfg.Sleep = countdown.Sleep
	}

	presenter := notify.NewHeadlessPresenter(notifier, s.Reminder.Message, s.Reminder.Link)
	loop := daemon.NewLoop(loopCfg, checker, presenter, logger)

	out := cmd.OutOrStdout()
	if opts.once {
		status := loop.RunOnce(ctx)
		status.WriteStatus(out)
		return nil
	}

	fmt.Fprintln(out, "======================================================================")
	fmt.Fprintln(out, "  JIRA NOTIFY (headless)")
	fmt.Fprintln(out, "======================================================================")
	fmt.Fprintf(out, "Jira:          %s\n", s.Jira.BaseURL)
	fmt.Fprintf(out, "Tempo:         %s\n", s.Tempo.BaseURL)
	fmt.Fprintf(out, "Poll Interval: %s\n", loopCfg.PollInterval)
	fmt.Fprintf(out, "Idle Tick:     %s\n", loopCfg.IdleTick)
	fmt.Fprintln(out, "Mode: Continuous polling (Ctrl+C to stop)")
	fmt.Fprintln(out, "======================================================================")

	if err := loop.Run(ctx); err != nil {
		return err
	}
	logger.Infof("Stopped after %d checks", loop.Status().CheckCount)

	status := loop.Status()
	status.WriteStatus(out)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
