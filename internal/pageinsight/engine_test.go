package pageinsight

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Bahjat/page-palette/internal/model"
	"github.com/Bahjat/page-palette/internal/palette"
	"github.com/Bahjat/page-palette/internal/platform/errs"
)

var errConnectionRefused = errors.New("connection refused")

// mockFetcher implements Fetcher for testing.
type mockFetcher struct {
	body       string
	statusCode int
	err        error
	calls      int
	closed     bool
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (io.ReadCloser, int, error) {
	m.calls++
	if m.err != nil {
		return nil, m.statusCode, m.err
	}
	return &trackedBody{Reader: strings.NewReader(m.body), fetcher: m}, m.statusCode, nil
}

type trackedBody struct {
	io.Reader
	fetcher *mockFetcher
}

func (b *trackedBody) Close() error {
	b.fetcher.closed = true
	return nil
}

// scenarioHTML has a body background rule, three coloured paragraphs, one
// blue button and a body font-family rule.
const scenarioHTML = `<!DOCTYPE html>
<html><head>
<style>
body{background:#123456}
body{font-family: "Helvetica", sans-serif}
</style>
</head><body>
<p style="color:#111">one</p>
<p style="color:#111">two</p>
<p style="color:#222">three</p>
<button style="background-color: blue">Go</button>
</body></html>`

func str(s string) *string { return &s }

var ignoreTimestamp = cmpopts.IgnoreFields(model.AnalysisResult{}, "AnalysisTimestamp")

func TestEngine_Analyze_Scenario(t *testing.T) {
	engine := NewEngine(&mockFetcher{body: scenarioHTML, statusCode: http.StatusOK}, palette.NewAnalyzer())

	got, err := engine.Analyze(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &model.AnalysisResult{
		BackgroundColor:      str("#123456"),
		PrimaryColorFont:     str("#111"),
		SecondaryColorFont:   str("#222"),
		PrimaryColorButton:   str("#0000ff"),
		SecondaryColorButton: str("#0000ff"),
		Font:                 `"Helvetica", sans-serif`,
		URL:                  "https://example.com",
	}
	if diff := cmp.Diff(want, got, ignoreTimestamp); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if got.AnalysisTimestamp.IsZero() {
		t.Error("AnalysisTimestamp not set")
	}
}

func TestEngine_Analyze_ClosesBody(t *testing.T) {
	f := &mockFetcher{body: "<html></html>", statusCode: http.StatusOK}
	if _, err := NewEngine(f, palette.NewAnalyzer()).Analyze(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.closed {
		t.Error("response body was not closed")
	}
}

func TestEngine_Analyze_EmptyPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	got, err := NewEngine(testClient(ts), palette.NewAnalyzer()).Analyze(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &model.AnalysisResult{
		BackgroundColor:      str("#ffffff"),
		PrimaryColorFont:     str("#000000"),
		SecondaryColorFont:   str("#333333"),
		PrimaryColorButton:   str("#000000"),
		SecondaryColorButton: str("#333333"),
		Font:                 "Arial, sans-serif",
		URL:                  ts.URL,
	}
	if diff := cmp.Diff(want, got, ignoreTimestamp); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Analyze_Errors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		fetcher    *mockFetcher
		wantKind   errs.Kind
		wantStatus int
		wantCalls  int
	}{
		{name: "malformed URL", url: "://nope", fetcher: &mockFetcher{}, wantKind: errs.InvalidInput},
		{name: "missing host", url: "https://", fetcher: &mockFetcher{}, wantKind: errs.InvalidInput},
		{name: "unsupported scheme", url: "ftp://example.com", fetcher: &mockFetcher{}, wantKind: errs.InvalidInput},
		{
			name:      "fetch failure",
			url:       "https://down.example.com",
			fetcher:   &mockFetcher{err: errConnectionRefused},
			wantKind:  errs.Unreachable,
			wantCalls: 1,
		},
		{
			name:      "fetch deadline",
			url:       "https://slow.example.com",
			fetcher:   &mockFetcher{err: context.DeadlineExceeded},
			wantKind:  errs.Timeout,
			wantCalls: 1,
		},
		{
			name:       "error status",
			url:        "https://example.com/missing",
			fetcher:    &mockFetcher{body: "gone", statusCode: http.StatusNotFound},
			wantKind:   errs.Unreachable,
			wantStatus: http.StatusNotFound,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.fetcher, palette.NewAnalyzer()).Analyze(context.Background(), tt.url)

			var appErr *errs.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *errs.AppError, got %T (%v)", err, err)
			}
			if appErr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", appErr.Kind, tt.wantKind)
			}
			if appErr.UpstreamStatus != tt.wantStatus {
				t.Errorf("UpstreamStatus = %d, want %d", appErr.UpstreamStatus, tt.wantStatus)
			}
			if tt.fetcher.calls != tt.wantCalls {
				t.Errorf("fetch calls = %d, want %d", tt.fetcher.calls, tt.wantCalls)
			}
		})
	}
}

func TestEngine_AnalyzeHTML(t *testing.T) {
	engine := NewEngine(&mockFetcher{}, palette.NewAnalyzer())

	got, err := engine.AnalyzeHTML(scenarioHTML, "file:///tmp/page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.URL != "file:///tmp/page.html" {
		t.Errorf("URL = %q", got.URL)
	}
	if *got.BackgroundColor != "#123456" {
		t.Errorf("background = %q, want %q", *got.BackgroundColor, "#123456")
	}
}

func TestEngine_AnalyzeSnapshot(t *testing.T) {
	engine := NewEngine(&mockFetcher{}, palette.NewAnalyzer())

	got, err := engine.AnalyzeSnapshot(strings.NewReader(snapshotJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got.BackgroundColor != "#0a2540" {
		t.Errorf("background = %q, want %q", *got.BackgroundColor, "#0a2540")
	}
	if got.URL != "https://live.example.com/" {
		t.Errorf("URL = %q", got.URL)
	}
}

func TestEngine_AnalyzeSnapshot_Malformed(t *testing.T) {
	_, err := NewEngine(&mockFetcher{}, palette.NewAnalyzer()).AnalyzeSnapshot(strings.NewReader("{not json"))

	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Kind != errs.InvalidInput {
		t.Fatalf("error = %v, want InvalidInput", err)
	}
}
