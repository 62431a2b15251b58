package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/keepgenius/jira-notify/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jira-notify configuration",
		Long: `Configuration management commands for jira-notify.

Commands:
  init  - Write the default settings file
  env   - Create a .env file with your credentials interactively
  show  - Display the effective configuration
  path  - Show configuration file paths`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigEnvCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Long: `Write jira-notify.conf with all settings at their defaults.

Use --force to overwrite an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !force {
				if _, err := os.Stat(settingsPath); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", settingsPath)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			if err := config.SaveSettings(config.NewSettings(), settingsPath); err != nil {
				return err
			}
			GetLogger().Info().Str("path", settingsPath).Msg("Configuration saved")

			fmt.Fprintf(out, "✓ Configuration saved to: %s\n", settingsPath)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Credentials are not stored in this file. Set JIRA_EMAIL, JIRA_API_TOKEN,")
			fmt.Fprintln(out, "TEMPO_API_TOKEN and MEDIA_FILE_PATH in your environment, or run 'config env'.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// newConfigEnvCmd creates the 'config env' command.
func newConfigEnvCmd() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Create a .env file with your credentials",
		Long: `Prompt for the Jira email, the Jira and Tempo API tokens and the
reminder media file, and write them to a .env file (mode 0600).

Tokens are read without echo when the input is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if output == "" {
				output = envFile
			}

			if !force {
				if _, err := os.Stat(output); err == nil {
					fmt.Fprintf(out, "%s already exists. Use --force to overwrite.\n", output)
					return nil
				}
			}

			p := newPrompter(cmd.InOrStdin(), out)
			fmt.Fprintln(out, "Jira Notify Credentials")
			fmt.Fprintln(out, "=======================")
			fmt.Fprintln(out)

			values := map[string]string{}
			prompts := []struct {
				name, label string
				secret      bool
			}{
				{config.EnvJiraEmail, "Jira email", false},
				{config.EnvJiraAPIToken, "Jira API token", true},
				{config.EnvTempoAPIToken, "Tempo API token", true},
				{config.EnvMediaFilePath, "Reminder media file", false},
			}
			for _, q := range prompts {
				v, err := p.required(q.label, q.secret)
				if err != nil {
					return err
				}
				values[q.name] = v
			}

			if err := godotenv.Write(values, output); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			if runtime.GOOS != "windows" {
				if err := os.Chmod(output, 0600); err != nil {
					return fmt.Errorf("failed to set permissions on %s: %w", output, err)
				}
			}
			GetLogger().Info().Str("path", output).Msg("Environment file written")

			fmt.Fprintln(out)
			fmt.Fprintf(out, "✓ Credentials saved to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: --env-file)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective settings and which credentials are set.

Tokens and the proxy password are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := requireSettings()
			if err != nil {
				return err
			}
			writeSettings(cmd.OutOrStdout(), s, os.Getenv)
			return nil
		},
	}
}

// writeSettings prints s and the credential status read through getenv.
func writeSettings(out io.Writer, s *config.Settings, getenv func(string) string) {
	fmt.Fprintln(out, "Current Configuration")
	fmt.Fprintln(out, "=====================")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Endpoints:")
	fmt.Fprintf(out, "  Jira:  %s\n", s.Jira.BaseURL)
	fmt.Fprintf(out, "  Tempo: %s\n", s.Tempo.BaseURL)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Schedule:")
	fmt.Fprintf(out, "  Poll Interval:   %s\n", s.PollInterval())
	fmt.Fprintf(out, "  Idle Tick:       %s\n", s.IdleTick())
	fmt.Fprintf(out, "  Request Timeout: %s\n", s.RequestTimeout())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Reminder:")
	fmt.Fprintf(out, "  Title:  %s\n", s.Reminder.Title)
	fmt.Fprintf(out, "  Link:   %s\n", s.Reminder.Link)
	if s.Reminder.PlayerCommand != "" {
		fmt.Fprintf(out, "  Player: %s\n", s.Reminder.PlayerCommand)
	} else {
		fmt.Fprintln(out, "  Player: <platform default>")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Proxy Settings:")
	fmt.Fprintf(out, "  Proxy Mode: %s\n", s.Proxy.Mode)
	if s.Proxy.Host != "" {
		fmt.Fprintf(out, "  Proxy Host: %s\n", s.Proxy.Host)
		fmt.Fprintf(out, "  Proxy Port: %d\n", s.Proxy.Port)
	}
	if s.Proxy.Password != "" {
		fmt.Fprintln(out, "  Proxy Password: <set>")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Logging:")
	if f := s.LogFile(); f != "" {
		fmt.Fprintf(out, "  File:  %s\n", f)
	} else {
		fmt.Fprintln(out, "  File:  <disabled>")
	}
	fmt.Fprintf(out, "  Level: %s\n", s.Logging.Level)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Notifications:")
	fmt.Fprintf(out, "  Enabled: %t (booked: %t, reminder: %t)\n",
		s.Notifications.Enabled, s.Notifications.ShowBooked, s.Notifications.ShowReminder)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Credentials:")
	for _, name := range []string{config.EnvJiraEmail, config.EnvJiraAPIToken, config.EnvTempoAPIToken, config.EnvMediaFilePath} {
		v := strings.TrimSpace(getenv(name))
		switch {
		case v == "":
			fmt.Fprintf(out, "  %-16s <not set>\n", name+":")
		case name == config.EnvJiraAPIToken || name == config.EnvTempoAPIToken:
			fmt.Fprintf(out, "  %-16s %s\n", name+":", config.MaskedToken(v))
		default:
			fmt.Fprintf(out, "  %-16s %s\n", name+":", v)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Configuration file: %s\n", settingsPath)
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "  (file does not exist - using defaults)")
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Settings: %s\n", settingsPath)
			fmt.Fprintf(out, "Env file: %s\n", envFile)
			if f := settings.LogFile(); f != "" {
				fmt.Fprintf(out, "Log file: %s\n", f)
			}
		},
	}
}

// prompter reads answers line by line, hiding secrets on a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, reader: bufio.NewReader(in), out: out}
}

// required asks until a non-empty answer is given.
func (p *prompter) required(label string, secret bool) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s (required): ", label)
		v, err := p.read(secret)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintf(p.out, "  Error: %s is required\n", strings.ToLower(label))
	}
}

func (p *prompter) read(secret bool) (string, error) {
	if f, ok := p.in.(*os.File); ok && secret && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
