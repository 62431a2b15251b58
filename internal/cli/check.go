package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keepgenius/jira-notify/internal/config"
)

// ErrNotBooked is returned by 'check --exit-code' when a reminder would fire.
var ErrNotBooked = errors.New("no hours booked")

// newCheckCmd creates the 'check' command.
func newCheckCmd() *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "check [date]",
		Short: "Check once whether hours are booked for a date",
		Long: `Run a single booking check and print the result. The date defaults to
today and accepts formats such as 2026-10-14, 14.10.2026, "Oct 14, 2026",
and the keywords today, yesterday and tomorrow.

With --exit-code the command fails when no hours are booked, which makes it
usable from scripts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := requireSettings()
			if err != nil {
				return err
			}
			creds, err := config.LoadCredentials(nil, false)
			if err != nil {
				return err
			}
			checker, err := newChecker(s, creds)
			if err != nil {
				return err
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			res, err := checker.CheckString(cmd.Context(), input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date:     %s\n", res.Date)
			fmt.Fprintf(out, "Outcome:  %s\n", res.Outcome)
			fmt.Fprintf(out, "Message:  %s\n", res.Message)
			if res.Count > 0 {
				fmt.Fprintf(out, "Worklogs: %d\n", res.Count)
			}

			if exitCode && !res.Booked() {
				return fmt.Errorf("%w on %s: %s", ErrNotBooked, res.Date, res.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with an error when no hours are booked")

	return cmd
}

// newWhoamiCmd creates the 'whoami' command.
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the Jira account the credentials belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := requireSettings()
			if err != nil {
				return err
			}
			creds, err := config.LoadCredentials(nil, false)
			if err != nil {
				return err
			}
			jira, err := newJiraClient(s, creds)
			if err != nil {
				return err
			}

			user, err := jira.Myself(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account ID:   %s\n", user.AccountID)
			fmt.Fprintf(out, "Display Name: %s\n", user.DisplayName)
			if user.EmailAddress != "" {
				fmt.Fprintf(out, "Email:        %s\n", user.EmailAddress)
			}
			if user.TimeZone != "" {
				fmt.Fprintf(out, "Time Zone:    %s\n", user.TimeZone)
			}
			fmt.Fprintf(out, "Jira:         %s\n", s.Jira.BaseURL)
			return nil
		},
	}
}
