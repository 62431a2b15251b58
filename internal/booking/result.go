// Package booking decides whether the current user has logged work for a given day.
package booking

import "fmt"

// Outcome classifies a booking check.
type Outcome int

const (
	// NotBooked means no worklog exists, or the answer could not be trusted
	// (identity or worklog API failure). The reminder fires.
	NotBooked Outcome = iota

	// Booked means at least one worklog exists for the date.
	Booked

	// NonWorkday means the date is a Saturday or Sunday; nothing was queried.
	NonWorkday

	// Error means the worklog query failed below HTTP (network, timeout, bad JSON).
	// It still counts as not booked.
	Error
)

// String returns the lowercase name used in logs and CLI output.
func (o Outcome) String() string {
	switch o {
	case Booked:
		return "booked"
	case NotBooked:
		return "not-booked"
	case NonWorkday:
		return "non-workday"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Standard result messages.
const (
	MsgNonWorkday = "not a workday"
	MsgBooked     = "has booked hours"
	MsgNotBooked  = "no hours booked"
)

// Result is the outcome of one check together with its human readable message.
type Result struct {
	Outcome Outcome
	Date    string // YYYY-MM-DD
	Message string
	Count   int   // worklogs found, when the query succeeded
	Err     error // underlying cause for NotBooked-by-failure and Error
}

// Booked reports whether no reminder is needed. A non-workday counts as booked.
func (r Result) Booked() bool {
	return r.Outcome == Booked || r.Outcome == NonWorkday
}

func (r Result) String() string {
	return fmt.Sprintf("%s %s: %s", r.Date, r.Outcome, r.Message)
}
