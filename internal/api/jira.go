package api

import (
	"context"
	"encoding/base64"
	"fmt"
	nethttp "net/http"

	"github.com/keepgenius/jira-notify/internal/constants"
)

// User is the subset of /rest/api/3/myself the tool cares about.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	TimeZone     string `json:"timeZone"`
	Active       bool   `json:"active"`
}

// JiraClient resolves the account identifier of the authenticated user.
type JiraClient struct {
	*baseClient
	authorization string
}

// NewJiraClient creates a Jira client using Basic auth with email and API token.
func NewJiraClient(opts ClientOptions, email, apiToken string) (*JiraClient, error) {
	if email == "" || apiToken == "" {
		return nil, fmt.Errorf("jira email and API token are required")
	}

	base, err := newBaseClient(opts)
	if err != nil {
		return nil, err
	}

	return &JiraClient{
		baseClient:    base,
		authorization: "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+apiToken)),
	}, nil
}

// Myself fetches the profile of the authenticated user.
// Any non-200 answer is returned as *IdentityResolutionError.
func (c *JiraClient) Myself(ctx context.Context) (*User, error) {
	header := nethttp.Header{}
	header.Set("Authorization", c.authorization)
	header.Set("Accept", "application/json")

	resp, err := c.get(ctx, constants.JiraMyselfPath, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, &IdentityResolutionError{StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	var user User
	if err := decodeJSON(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolveIdentity returns the opaque accountId used as worker key by Tempo.
func (c *JiraClient) ResolveIdentity(ctx context.Context) (string, error) {
	user, err := c.Myself(ctx)
	if err != nil {
		return "", err
	}
	if user.AccountID == "" {
		return "", fmt.Errorf("identity response did not contain an accountId")
	}
	return user.AccountID, nil
}
