package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Bahjat/page-palette/internal/model"
	"github.com/Bahjat/page-palette/internal/palette"
	"github.com/Bahjat/page-palette/internal/platform/errs"
	"github.com/Bahjat/page-palette/internal/platform/requestid"
)

// Service orchestrates a PaletteProvider and logs results.
type Service struct {
	provider PaletteProvider
	logger   *slog.Logger
}

// NewService creates a Service backed by the given provider.
func NewService(provider PaletteProvider, logger *slog.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// Analyze fetches and analyses a page, logging the outcome.
func (s *Service) Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error) {
	logger := s.logger.With("url", targetURL, "mode", palette.ModeStatic, "request_id", requestid.FromContext(ctx))

	result, err := s.provider.Analyze(ctx, targetURL)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &errs.AppError{
			Kind:    errs.Timeout,
			Message: "Analysis timed out. The target URL may be slow to respond.",
			Cause:   err,
		}
	}
	return report(logger, result, err)
}

// AnalyzeHTML analyses caller-supplied markup, logging the outcome.
func (s *Service) AnalyzeHTML(ctx context.Context, markup, location string) (*model.AnalysisResult, error) {
	logger := s.logger.With("url", location, "mode", palette.ModeStatic, "request_id", requestid.FromContext(ctx))

	result, err := s.provider.AnalyzeHTML(markup, location)
	return report(logger, result, err)
}

// AnalyzeSnapshot analyses a render snapshot, logging the outcome.
func (s *Service) AnalyzeSnapshot(ctx context.Context, snapshot io.Reader) (*model.AnalysisResult, error) {
	logger := s.logger.With("mode", palette.ModeLive, "request_id", requestid.FromContext(ctx))

	result, err := s.provider.AnalyzeSnapshot(snapshot)
	if err == nil {
		logger = logger.With("url", result.URL)
	}
	return report(logger, result, err)
}

func report(logger *slog.Logger, result *model.AnalysisResult, err error) (*model.AnalysisResult, error) {
	if err != nil {
		attrs := []any{"error", err}
		var appErr *errs.AppError
		if errors.As(err, &appErr) {
			attrs = append(attrs, "kind", appErr.Kind.String())
			if appErr.UpstreamStatus != 0 {
				attrs = append(attrs, "target_status", appErr.UpstreamStatus)
			}
		}
		logger.Error("analysis failed", attrs...)
		return nil, err
	}

	logger.Info("analysis complete",
		"background_color", deref(result.BackgroundColor),
		"primary_color_font", deref(result.PrimaryColorFont),
		"secondary_color_font", deref(result.SecondaryColorFont),
		"primary_color_button", deref(result.PrimaryColorButton),
		"secondary_color_button", deref(result.SecondaryColorButton),
		"font", result.Font,
	)
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
