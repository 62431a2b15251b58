package api

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/keepgenius/jira-notify/internal/constants"
)

// worklogSearch is the part of the Tempo worklog listing we read.
type worklogSearch struct {
	Metadata struct {
		Count  int `json:"count"`
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	} `json:"metadata"`
}

// TempoClient queries Tempo worklogs with a bearer token.
type TempoClient struct {
	*baseClient
	token string
}

// NewTempoClient creates a Tempo client.
func NewTempoClient(opts ClientOptions, token string) (*TempoClient, error) {
	if token == "" {
		return nil, fmt.Errorf("tempo API token is required")
	}

	base, err := newBaseClient(opts)
	if err != nil {
		return nil, err
	}
	return &TempoClient{baseClient: base, token: token}, nil
}

// CountWorklogs returns how many worklogs accountID has on date (YYYY-MM-DD).
// Any non-200 answer is returned as *APIError.
func (c *TempoClient) CountWorklogs(ctx context.Context, accountID, date string) (int, error) {
	query := url.Values{}
	query.Set("from", date)
	query.Set("to", date)
	query.Set("worker", accountID)

	header := nethttp.Header{}
	header.Set("Authorization", "Bearer "+c.token)
	header.Set("Accept", "application/json")

	resp, err := c.get(ctx, constants.TempoWorklogsPath+"?"+query.Encode(), header)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return 0, &APIError{StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	var result worklogSearch
	if err := decodeJSON(resp, &result); err != nil {
		return 0, err
	}
	return result.Metadata.Count, nil
}
