package booking

import (
	"context"
	"errors"
	"time"

	"github.com/keepgenius/jira-notify/internal/api"
	"github.com/keepgenius/jira-notify/internal/logging"
)

// IdentityResolver returns the account identifier of the configured user.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context) (string, error)
}

// WorklogCounter counts the worklogs of an account on a YYYY-MM-DD date.
type WorklogCounter interface {
	CountWorklogs(ctx context.Context, accountID, date string) (int, error)
}

// Checker answers "has the user booked hours on this date?".
// The account identifier is resolved again on every check.
type Checker struct {
	identity IdentityResolver
	worklogs WorklogCounter
	logger   *logging.Logger
	now      func() time.Time
}

// NewChecker creates a checker. A nil logger discards output.
func NewChecker(identity IdentityResolver, worklogs WorklogCounter, logger *logging.Logger) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Checker{
		identity: identity,
		worklogs: worklogs,
		logger:   logger,
		now:      time.Now,
	}
}

// Check runs one booking check for the calendar date of day.
//
// Weekends short-circuit before any network call. An identity failure of any kind
// and a non-200 worklog answer both yield NotBooked so the reminder still fires;
// a transport failure of the worklog query yields Error, which is not booked either.
func (c *Checker) Check(ctx context.Context, day time.Time) Result {
	date := FormatDate(day)
	logger := logging.FromContext(ctx, c.logger)

	if !IsWorkday(day) {
		logger.Info().Str("date", date).Str("weekday", day.Weekday().String()).Msg("Not a workday, skipping check")
		return Result{Outcome: NonWorkday, Date: date, Message: MsgNonWorkday}
	}

	accountID, err := c.identity.ResolveIdentity(ctx)
	if err != nil {
		logger.Error().Err(err).
			Str("date", date).
			Bool("auth", api.IsAuthError(err)).
			Bool("network", api.IsNetworkError(err)).
			Msg("Identity resolution failed, treating as not booked")
		return Result{Outcome: NotBooked, Date: date, Message: err.Error(), Err: err}
	}
	logger.Debug().Str("account_id", accountID).Msg("Resolved identity")

	count, err := c.worklogs.CountWorklogs(ctx, accountID, date)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			logger.Error().
				Int("status", apiErr.StatusCode).
				Str("body", apiErr.Body).
				Str("date", date).
				Msg("Worklog query rejected, treating as not booked")
			return Result{Outcome: NotBooked, Date: date, Message: apiErr.Error(), Err: err}
		}

		logger.Error().Err(err).Str("date", date).Msg("Worklog query failed, treating as not booked")
		return Result{Outcome: Error, Date: date, Message: err.Error(), Err: err}
	}

	if count > 0 {
		logger.Info().Str("date", date).Int("worklogs", count).Msg("Hours booked")
		return Result{Outcome: Booked, Date: date, Message: MsgBooked, Count: count}
	}

	logger.Warn().Str("date", date).Msg("No hours booked")
	return Result{Outcome: NotBooked, Date: date, Message: MsgNotBooked}
}

// CheckString parses input with ParseDate and runs Check.
func (c *Checker) CheckString(ctx context.Context, input string) (Result, error) {
	day, err := ParseDate(input, c.now())
	if err != nil {
		return Result{}, err
	}
	return c.Check(ctx, day), nil
}
