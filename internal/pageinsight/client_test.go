package pageinsight

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func testClient(ts *httptest.Server) *HTTPClient {
	return &HTTPClient{
		client:       ts.Client(),
		userAgent:    BotUserAgent,
		accept:       "text/html",
		maxBodyBytes: defaultMaxBodyBytes,
	}
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	c := NewHTTPClient(ClientOptions{})
	if c.client == nil {
		t.Fatal("internal http.Client is nil")
	}
	if c.client.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.client.Timeout, defaultTimeout)
	}
	if c.userAgent != BotUserAgent {
		t.Errorf("userAgent = %q, want %q", c.userAgent, BotUserAgent)
	}
	if c.maxBodyBytes != defaultMaxBodyBytes {
		t.Errorf("maxBodyBytes = %d, want %d", c.maxBodyBytes, defaultMaxBodyBytes)
	}
}

func TestNewHTTPClient_Options(t *testing.T) {
	c := NewHTTPClient(ClientOptions{UserAgent: "custom/2.0", Timeout: 3 * time.Second, MaxBodyBytes: 64})
	if c.userAgent != "custom/2.0" || c.client.Timeout != 3*time.Second || c.maxBodyBytes != 64 {
		t.Errorf("options not applied: ua=%q timeout=%v max=%d", c.userAgent, c.client.Timeout, c.maxBodyBytes)
	}
}

func TestHTTPClient_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != BotUserAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), BotUserAgent)
		}
		if r.Header.Get("Accept") != "text/html" {
			t.Errorf("Accept = %q, want %q", r.Header.Get("Accept"), "text/html")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "<html><body>Hello</body></html>")
	}))
	defer ts.Close()

	body, status, err := testClient(ts).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = body.Close() }()

	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if string(data) != "<html><body>Hello</body></html>" {
		t.Errorf("body = %q", data)
	}
}

func TestHTTPClient_Fetch_DecodesCharset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "café" in Latin-1.
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer ts.Close()

	body, _, err := testClient(ts).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = body.Close() }()

	data, _ := io.ReadAll(body)
	if string(data) != "café" {
		t.Errorf("body = %q, want %q", data, "café")
	}
}

func TestHTTPClient_Fetch_LimitsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "0123456789abcdef")
	}))
	defer ts.Close()

	c := testClient(ts)
	c.maxBodyBytes = 10
	body, _, err := c.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = body.Close() }()

	data, _ := io.ReadAll(body)
	if len(data) != 10 {
		t.Errorf("read %d bytes, want 10", len(data))
	}
}

func TestHTTPClient_Fetch_InvalidURL(t *testing.T) {
	_, _, err := NewHTTPClient(ClientOptions{}).Fetch(context.Background(), "://bad-url")
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestHTTPClient_Fetch_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := testClient(ts).Fetch(ctx, ts.URL); err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}

func TestHTTPClient_Fetch_EmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	body, status, err := testClient(ts).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = body.Close() }()

	if status != http.StatusNoContent {
		t.Errorf("status = %d, want %d", status, http.StatusNoContent)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("body = %q, want empty", data)
	}
}

func TestHTTPClient_Fetch_RefusesLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if _, _, err := NewHTTPClient(ClientOptions{}).Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("expected loopback fetch to be refused")
	}

	body, status, err := NewHTTPClient(ClientOptions{AllowPrivateNetworks: true}).Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch with private networks allowed: %v", err)
	}
	_ = body.Close()
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
}

func TestSafeRedirectPolicy(t *testing.T) {
	tests := []struct {
		name    string
		scheme  string
		via     int
		wantErr bool
	}{
		{name: "https within limit", scheme: "https", via: 3, wantErr: false},
		{name: "too many redirects", scheme: "https", via: 5, wantErr: true},
		{name: "blocked ftp scheme", scheme: "ftp", via: 0, wantErr: true},
		{name: "blocked javascript scheme", scheme: "javascript", via: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{URL: &url.URL{Scheme: tt.scheme, Host: "example.com"}} //nolint:exhaustruct
			via := make([]*http.Request, tt.via)

			err := safeRedirectPolicy(req, via)
			if (err != nil) != tt.wantErr {
				t.Errorf("safeRedirectPolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
