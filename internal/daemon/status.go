package daemon

import (
	"fmt"
	"io"
	"time"

	"github.com/keepgenius/jira-notify/internal/booking"
)

// Status is a point-in-time view of the polling loop.
type Status struct {
	Phase          Phase
	LastCheckedDay string
	LastResult     *booking.Result
	LastCheck      time.Time
	NextCheck      time.Time
	CheckCount     int
	ReminderCount  int
}

// Summary is the one-line form shown in the tray menu.
func (s Status) Summary() string {
	switch {
	case s.Phase == ReminderActive:
		return "Reminder open"
	case s.Phase == Checking:
		return "Checking…"
	case s.LastResult == nil:
		return "Waiting for first check"
	case s.LastResult.Booked():
		return fmt.Sprintf("%s: %s", s.LastResult.Date, s.LastResult.Message)
	default:
		return fmt.Sprintf("%s: %s (next check %s)", s.LastResult.Date, s.LastResult.Message, s.NextCheck.Format("15:04"))
	}
}

// WriteStatus writes status to a writer.
func (s *Status) WriteStatus(w io.Writer) {
	fmt.Fprintf(w, "Jira Notify Status:\n")
	fmt.Fprintf(w, "  Phase: %s\n", s.Phase)
	if s.LastCheckedDay != "" {
		fmt.Fprintf(w, "  Last Booked Day: %s\n", s.LastCheckedDay)
	} else {
		fmt.Fprintf(w, "  Last Booked Day: None\n")
	}
	if !s.LastCheck.IsZero() {
		fmt.Fprintf(w, "  Last Check: %s\n", s.LastCheck.Format(time.RFC3339))
	} else {
		fmt.Fprintf(w, "  Last Check: Never\n")
	}
	if s.LastResult != nil {
		fmt.Fprintf(w, "  Last Result: %s (%s)\n", s.LastResult.Outcome, s.LastResult.Message)
	}
	if !s.NextCheck.IsZero() {
		fmt.Fprintf(w, "  Next Check: %s\n", s.NextCheck.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "  Checks: %d\n", s.CheckCount)
	fmt.Fprintf(w, "  Reminders: %d\n", s.ReminderCount)
}
