package cli

import (
	"fmt"

	"github.com/keepgenius/jira-notify/internal/api"
	"github.com/keepgenius/jira-notify/internal/booking"
	"github.com/keepgenius/jira-notify/internal/config"
)

// clientOptions builds the shared API client options for baseURL.
func clientOptions(s *config.Settings, baseURL string) api.ClientOptions {
	return api.ClientOptions{
		BaseURL: baseURL,
		Timeout: s.RequestTimeout(),
		Proxy:   s.Proxy,
		Logger:  GetLogger(),
	}
}

// newJiraClient creates the identity client from settings and credentials.
func newJiraClient(s *config.Settings, creds *config.Credentials) (*api.JiraClient, error) {
	client, err := api.NewJiraClient(clientOptions(s, s.Jira.BaseURL), creds.Email, creds.JiraAPIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Jira client: %w", err)
	}
	return client, nil
}

// newChecker wires the Jira and Tempo clients into a booking checker.
func newChecker(s *config.Settings, creds *config.Credentials) (*booking.Checker, error) {
	jira, err := newJiraClient(s, creds)
	if err != nil {
		return nil, err
	}

	tempo, err := api.NewTempoClient(clientOptions(s, s.Tempo.BaseURL), creds.TempoAPIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tempo client: %w", err)
	}

	GetLogger().Debug().
		Str("jira", s.Jira.BaseURL).
		Str("tempo", s.Tempo.BaseURL).
		Str("email", creds.Email).
		Msg("API clients configured")

	return booking.NewChecker(jira, tempo, GetLogger()), nil
}
