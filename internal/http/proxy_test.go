package http

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	ntlmssp "github.com/Azure/go-ntlmssp"

	"github.com/keepgenius/jira-notify/internal/config"
	"github.com/keepgenius/jira-notify/internal/logging"
)

// TestProxyFuncWithBypass_EmptyNoProxy verifies that an empty noProxy always routes through proxy.
func TestProxyFuncWithBypass_EmptyNoProxy(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "", logging.NewNop())

	req, _ := http.NewRequest("GET", "https://api.tempo.io/core/3/worklogs", nil)
	result, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected proxy URL, got nil (direct)")
	}
	if result.Host != "proxy.corp:8080" {
		t.Errorf("expected proxy host proxy.corp:8080, got %s", result.Host)
	}
}

// TestProxyFuncWithBypass_Patterns verifies domain, wildcard and CIDR entries.
func TestProxyFuncWithBypass_Patterns(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "*.atlassian.net, 10.0.0.0/8, tempo.internal", logging.NewNop())

	tests := []struct {
		name       string
		url        string
		wantBypass bool
	}{
		{"wildcard match", "https://keepgenius.atlassian.net/rest/api/3/myself", true},
		{"cidr match", "http://10.1.2.3:8080/api", true},
		{"exact domain match", "https://tempo.internal/core/3/worklogs", true},
		{"non-match", "https://api.tempo.io/core/3/worklogs", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.url, nil)
			result, err := proxyFunc(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantBypass && result != nil {
				t.Errorf("expected bypass (nil) for %s, got %v", tt.url, result)
			}
			if !tt.wantBypass && result == nil {
				t.Errorf("expected proxy for %s, got nil (bypass)", tt.url)
			}
		})
	}
}

func TestBuildProxyURL(t *testing.T) {
	u := buildProxyURL(config.ProxySettings{Host: "proxy.corp", User: "me", Password: "secret"})
	if u.Host != "proxy.corp:8080" {
		t.Errorf("expected default port 8080, got %s", u.Host)
	}
	if u.User == nil || u.User.Username() != "me" {
		t.Errorf("expected credentials in proxy URL, got %v", u.User)
	}

	u = buildProxyURL(config.ProxySettings{Host: "proxy.corp", Port: 3128, User: "me"})
	if u.User != nil {
		t.Error("credentials without password must not be embedded")
	}
	if u.Host != "proxy.corp:3128" {
		t.Errorf("expected proxy.corp:3128, got %s", u.Host)
	}
}

func TestConfigureHTTPClient(t *testing.T) {
	client, err := ConfigureHTTPClient(config.ProxySettings{Mode: "no-proxy"}, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", client.Timeout)
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}
	if transport.Proxy != nil {
		t.Error("no-proxy mode must not set a proxy func")
	}
}

func TestConfigureHTTPClient_NTLMWrapsTransport(t *testing.T) {
	client, err := ConfigureHTTPClient(config.ProxySettings{Mode: "ntlm", Host: "proxy.corp"}, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := client.Transport.(ntlmssp.Negotiator); !ok {
		t.Errorf("expected ntlmssp.Negotiator, got %T", client.Transport)
	}
}

func TestConfigureHTTPClient_MissingHostFallsBack(t *testing.T) {
	client, err := ConfigureHTTPClient(config.ProxySettings{Mode: "basic"}, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	transport := client.Transport.(*http.Transport)
	if transport.Proxy != nil {
		t.Error("basic mode without host should fall back to no proxy")
	}
}

func TestConfigureHTTPClient_UnknownMode(t *testing.T) {
	if _, err := ConfigureHTTPClient(config.ProxySettings{Mode: "socks5"}, 0, nil); err == nil {
		t.Error("expected error for unsupported mode")
	}
}
