package api

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJira(t *testing.T, srv *httptest.Server) *JiraClient {
	t.Helper()
	c, err := NewJiraClient(ClientOptions{BaseURL: srv.URL + "/"}, "dev@example.com", "jira-token")
	require.NoError(t, err)
	return c
}

func newTempo(t *testing.T, srv *httptest.Server) *TempoClient {
	t.Helper()
	c, err := NewTempoClient(ClientOptions{BaseURL: srv.URL}, "tempo-token")
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsEmptyBaseURL(t *testing.T) {
	_, err := NewJiraClient(ClientOptions{}, "a", "b")
	assert.Error(t, err)

	_, err = NewTempoClient(ClientOptions{BaseURL: "  "}, "t")
	assert.Error(t, err)
}

func TestNewClientRejectsMissingCredentials(t *testing.T) {
	_, err := NewJiraClient(ClientOptions{BaseURL: "https://x"}, "", "b")
	assert.Error(t, err)

	_, err = NewTempoClient(ClientOptions{BaseURL: "https://x"}, "")
	assert.Error(t, err)
}

func TestResolveIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/myself", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("dev@example.com:jira-token"))
		assert.Equal(t, want, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Contains(t, r.Header.Get("User-Agent"), "jira-notify/")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accountId":"5b10ac8d82e05b22cc7d4ef5","displayName":"Dev","timeZone":"Europe/Berlin"}`))
	}))
	defer srv.Close()

	id, err := newJira(t, srv).ResolveIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5b10ac8d82e05b22cc7d4ef5", id)
}

func TestResolveIdentityNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Client must be authenticated to access this resource."))
	}))
	defer srv.Close()

	_, err := newJira(t, srv).ResolveIdentity(context.Background())
	require.Error(t, err)

	var idErr *IdentityResolutionError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, 401, idErr.StatusCode)
	assert.Equal(t, "Failed to fetch user details: 401, Reason: Client must be authenticated to access this resource.", err.Error())
	assert.True(t, IsAuthError(err))
	assert.False(t, IsNetworkError(err))
}

func TestResolveIdentityServerErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newJira(t, srv).ResolveIdentity(context.Background())
	var idErr *IdentityResolutionError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, 503, idErr.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestResolveIdentityEmptyAccountID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"displayName":"Dev"}`))
	}))
	defer srv.Close()

	_, err := newJira(t, srv).ResolveIdentity(context.Background())
	assert.Error(t, err)
}

func TestMyself(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accountId":"abc","displayName":"Dev Eloper","emailAddress":"dev@example.com","active":true}`))
	}))
	defer srv.Close()

	user, err := newJira(t, srv).Myself(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dev Eloper", user.DisplayName)
	assert.Equal(t, "dev@example.com", user.EmailAddress)
	assert.True(t, user.Active)
}

func TestCountWorklogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/core/3/worklogs", r.URL.Path)
		assert.Equal(t, "Bearer tempo-token", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "2026-10-14", q.Get("from"))
		assert.Equal(t, "2026-10-14", q.Get("to"))
		assert.Equal(t, "acc-1", q.Get("worker"))

		_, _ = w.Write([]byte(`{"self":"x","metadata":{"count":3,"offset":0,"limit":50},"results":[]}`))
	}))
	defer srv.Close()

	count, err := newTempo(t, srv).CountWorklogs(context.Background(), "acc-1", "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCountWorklogsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	_, err := newTempo(t, srv).CountWorklogs(context.Background(), "acc-1", "2026-10-14")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "API Error: 429", err.Error())
	assert.Equal(t, "slow down", apiErr.Body)
}

func TestCountWorklogsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"metadata":`))
	}))
	defer srv.Close()

	_, err := newTempo(t, srv).CountWorklogs(context.Background(), "acc-1", "2026-10-14")
	assert.Error(t, err)
}

func TestCountWorklogsTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewTempoClient(ClientOptions{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, "tempo-token")
	require.NoError(t, err)

	_, err = c.CountWorklogs(context.Background(), "acc-1", "2026-10-14")
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}
