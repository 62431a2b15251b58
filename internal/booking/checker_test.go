package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepgenius/jira-notify/internal/api"
)

type fakeIdentity struct {
	id    string
	err   error
	calls int
}

func (f *fakeIdentity) ResolveIdentity(ctx context.Context) (string, error) {
	f.calls++
	return f.id, f.err
}

type fakeWorklogs struct {
	count int
	err   error
	calls int
	gotID string
	gotOn string
}

func (f *fakeWorklogs) CountWorklogs(ctx context.Context, accountID, date string) (int, error) {
	f.calls++
	f.gotID = accountID
	f.gotOn = date
	return f.count, f.err
}

var (
	wednesday = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	saturday  = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	sunday    = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
)

func TestCheckWeekendMakesNoCalls(t *testing.T) {
	for _, day := range []time.Time{saturday, sunday} {
		identity := &fakeIdentity{id: "acc"}
		worklogs := &fakeWorklogs{}
		res := NewChecker(identity, worklogs, nil).Check(context.Background(), day)

		assert.Equal(t, NonWorkday, res.Outcome)
		assert.True(t, res.Booked())
		assert.Equal(t, "not a workday", res.Message)
		assert.Zero(t, identity.calls, "identity must not be queried on %s", day.Weekday())
		assert.Zero(t, worklogs.calls)
	}
}

func TestCheckBooked(t *testing.T) {
	identity := &fakeIdentity{id: "acc-1"}
	worklogs := &fakeWorklogs{count: 2}

	res := NewChecker(identity, worklogs, nil).Check(context.Background(), wednesday)

	assert.Equal(t, Booked, res.Outcome)
	assert.True(t, res.Booked())
	assert.Equal(t, "has booked hours", res.Message)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "acc-1", worklogs.gotID)
	assert.Equal(t, "2026-10-14", worklogs.gotOn)
}

func TestCheckNotBooked(t *testing.T) {
	res := NewChecker(&fakeIdentity{id: "acc-1"}, &fakeWorklogs{count: 0}, nil).Check(context.Background(), wednesday)

	assert.Equal(t, NotBooked, res.Outcome)
	assert.False(t, res.Booked())
	assert.Equal(t, "no hours booked", res.Message)
}

func TestCheckIdentityFailureIsNotBooked(t *testing.T) {
	idErr := &api.IdentityResolutionError{StatusCode: 401, Body: "Unauthorized"}
	worklogs := &fakeWorklogs{count: 5}

	res := NewChecker(&fakeIdentity{err: idErr}, worklogs, nil).Check(context.Background(), wednesday)

	assert.Equal(t, NotBooked, res.Outcome)
	assert.False(t, res.Booked())
	assert.Equal(t, "Failed to fetch user details: 401, Reason: Unauthorized", res.Message)
	assert.Zero(t, worklogs.calls, "worklogs must not be queried without identity")
}

func TestCheckIdentityNetworkFailureIsNotBooked(t *testing.T) {
	res := NewChecker(&fakeIdentity{err: errors.New("dial tcp: no route to host")}, &fakeWorklogs{}, nil).
		Check(context.Background(), wednesday)

	assert.Equal(t, NotBooked, res.Outcome)
	assert.Equal(t, "dial tcp: no route to host", res.Message)
}

func TestCheckWorklogAPIErrorIsNotBooked(t *testing.T) {
	worklogs := &fakeWorklogs{err: fmt.Errorf("query: %w", &api.APIError{StatusCode: 500})}

	res := NewChecker(&fakeIdentity{id: "acc"}, worklogs, nil).Check(context.Background(), wednesday)

	assert.Equal(t, NotBooked, res.Outcome)
	assert.Equal(t, "API Error: 500", res.Message)
	assert.Error(t, res.Err)
}

func TestCheckWorklogTransportErrorIsError(t *testing.T) {
	res := NewChecker(&fakeIdentity{id: "acc"}, &fakeWorklogs{err: errors.New("timeout")}, nil).
		Check(context.Background(), wednesday)

	assert.Equal(t, Error, res.Outcome)
	assert.False(t, res.Booked())
}

func TestCheckString(t *testing.T) {
	c := NewChecker(&fakeIdentity{id: "acc"}, &fakeWorklogs{count: 1}, nil)
	c.now = func() time.Time { return wednesday }

	res, err := c.CheckString(context.Background(), "yesterday")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-13", res.Date)
	assert.Equal(t, Booked, res.Outcome)

	res, err = c.CheckString(context.Background(), "17.10.2026")
	require.NoError(t, err)
	assert.Equal(t, NonWorkday, res.Outcome)

	_, err = c.CheckString(context.Background(), "next blue moon")
	var parseErr *DateParseError
	assert.True(t, errors.As(err, &parseErr))
}

// End to end against fake Jira and Tempo servers, through the real clients.
func TestCheckAgainstServers(t *testing.T) {
	var tempoCalls atomic.Int32
	jira := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accountId":"acc-42"}`))
	}))
	defer jira.Close()

	tempo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tempoCalls.Add(1)
		if r.URL.Query().Get("worker") != "acc-42" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"metadata":{"count":0}}`))
	}))
	defer tempo.Close()

	jiraClient, err := api.NewJiraClient(api.ClientOptions{BaseURL: jira.URL}, "dev@example.com", "tok")
	require.NoError(t, err)
	tempoClient, err := api.NewTempoClient(api.ClientOptions{BaseURL: tempo.URL}, "tempo")
	require.NoError(t, err)

	c := NewChecker(jiraClient, tempoClient, nil)

	res := c.Check(context.Background(), wednesday)
	assert.Equal(t, NotBooked, res.Outcome)
	assert.Equal(t, "no hours booked", res.Message)
	assert.EqualValues(t, 1, tempoCalls.Load())

	res = c.Check(context.Background(), saturday)
	assert.Equal(t, NonWorkday, res.Outcome)
	assert.EqualValues(t, 1, tempoCalls.Load(), "weekend check must not reach tempo")
}
