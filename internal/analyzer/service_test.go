package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Bahjat/page-palette/internal/platform/errs"
	"github.com/Bahjat/page-palette/internal/platform/requestid"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &rec); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	return rec
}

func TestService_LogsModeAndColours(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Service, context.Context) error
		wantMode string
	}{
		{
			name: "url",
			call: func(s *Service, ctx context.Context) error {
				_, err := s.Analyze(ctx, "https://example.com")
				return err
			},
			wantMode: "static",
		},
		{
			name: "html",
			call: func(s *Service, ctx context.Context) error {
				_, err := s.AnalyzeHTML(ctx, "<p>x</p>", "https://example.com")
				return err
			},
			wantMode: "static",
		},
		{
			name: "snapshot",
			call: func(s *Service, ctx context.Context) error {
				_, err := s.AnalyzeSnapshot(ctx, strings.NewReader("{}"))
				return err
			},
			wantMode: "live",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := captureLogger()
			svc := NewService(&mockProvider{result: sampleResult()}, logger)
			ctx := requestid.NewContext(context.Background(), "req-42")

			if err := tt.call(svc, ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			rec := lastRecord(t, buf)
			checks := map[string]string{
				"msg":              "analysis complete",
				"mode":             tt.wantMode,
				"request_id":       "req-42",
				"url":              "https://example.com",
				"background_color": "#123456",
				"font":             `"Helvetica", sans-serif`,
			}
			for k, want := range checks {
				if got, _ := rec[k].(string); got != want {
					t.Errorf("log %s = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestService_LogsFailureKind(t *testing.T) {
	logger, buf := captureLogger()
	svc := NewService(&mockProvider{err: errs.Extraction(errors.New("blocked"))}, logger)

	if _, err := svc.AnalyzeHTML(context.Background(), "<p>x</p>", ""); err == nil {
		t.Fatal("expected error, got nil")
	}

	rec := lastRecord(t, buf)
	if rec["msg"] != "analysis failed" || rec["kind"] != "extraction_fault" {
		t.Errorf("log record = %v", rec)
	}
}

func TestService_Analyze_DeadlineBecomesTimeout(t *testing.T) {
	logger, _ := captureLogger()
	svc := NewService(&mockProvider{err: errors.New("context deadline exceeded")}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := svc.Analyze(ctx, "https://slow.example.com")

	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Kind != errs.Timeout {
		t.Fatalf("error = %v, want a Timeout AppError", err)
	}
}
