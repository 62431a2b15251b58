// Package cli provides the command-line interface for jira-notify.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keepgenius/jira-notify/internal/config"
	"github.com/keepgenius/jira-notify/internal/constants"
	"github.com/keepgenius/jira-notify/internal/logging"
	"github.com/keepgenius/jira-notify/internal/pathutil"
	"github.com/keepgenius/jira-notify/internal/version"
)

// debugEnvVar switches on debug logging like --debug.
const debugEnvVar = "JIRA_NOTIFY_DEBUG"

var (
	// Global flags
	cfgFile string
	envFile string
	logFile string
	verbose bool
	debug   bool

	// Global logger
	logger *logging.Logger

	// Settings loaded by the root command before any subcommand runs
	settings     *config.Settings
	settingsPath string
	settingsErr  error
)

// NewRootCmd creates the root command. Without a subcommand it behaves like "run".
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.BinaryName,
		Short: "Jira Notify - reminds you to book your hours in Tempo",
		Long: `Jira Notify ` + version.Version + ` - Built: ` + version.BuildTime + `
Checks once per day whether you have booked hours in Tempo and shows a
reminder every few minutes until you have.

Credentials are read from the environment or a .env file:
  JIRA_EMAIL, JIRA_API_TOKEN, TEMPO_API_TOKEN, MEDIA_FILE_PATH

Running without a subcommand is the same as "jira-notify run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifier(cmd, runOptions{})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Settings file path (default: "+defaultSettingsPathHint()+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading credentials")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", `Log file path, "-" disables file logging (overrides settings)`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	return rootCmd.ExecuteContext(ctx)
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewLogger("cli")
	}
	return logger
}

// setup loads the .env file and settings, then builds the logger. A broken
// settings file does not stop setup so that "config init --force" can repair it;
// commands that need settings call requireSettings.
func setup(cmd *cobra.Command) error {
	level := zerolog.InfoLevel

	settingsPath = cfgFile
	if settingsPath == "" {
		if p, err := config.DefaultSettingsPath(); err == nil {
			settingsPath = p
		}
	}
	settings, settingsErr = config.LoadSettings(settingsPath)
	if settingsErr != nil {
		settings = config.NewSettings()
	} else {
		level = logging.ParseLevel(settings.Logging.Level)
	}

	if verbose || debug || os.Getenv(debugEnvVar) != "" {
		level = zerolog.DebugLevel
	}
	logging.SetGlobalLevel(level)

	path := settings.LogFile()
	switch logFile {
	case "":
	case "-":
		path = ""
	default:
		if resolved, err := pathutil.ResolveAbsolutePath(logFile); err == nil {
			path = resolved
		} else {
			path = logFile
		}
	}

	var err error
	logger, err = logging.New(logging.Options{
		Mode:    cmd.Name(),
		LogFile: path,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Log file unavailable, logging to console only")
	}

	if f := logger.LogFile(); f != "" {
		logger.Debugf("Logging to %s", f)
	}

	found, err := config.LoadEnvFile(envFile)
	if err != nil {
		return err
	}
	logger.Debug().Bool("found", found).Str("path", envFile).Msg("Environment file")
	return nil
}

// requireSettings returns the settings loaded by setup, failing on parse or
// validation errors.
func requireSettings() (*config.Settings, error) {
	if settingsErr != nil {
		return nil, fmt.Errorf("failed to load settings: %w", settingsErr)
	}
	if settings == nil {
		settings = config.NewSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", settingsPath, err)
	}
	return settings, nil
}

func defaultSettingsPathHint() string {
	if p, err := config.DefaultSettingsPath(); err == nil {
		return p
	}
	return "jira-notify.conf in the user config directory"
}

// newVersionCmd creates the 'version' command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", constants.BinaryName, version.Version, version.BuildTime)
		},
	}
}
