package pageinsight

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/Bahjat/page-palette/internal/model"
	"github.com/Bahjat/page-palette/internal/palette"
	"github.com/Bahjat/page-palette/internal/platform/errs"
)

const msgInvalidURL = "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com)."

// documentAnalyzer runs the palette extraction over a Document.
type documentAnalyzer interface {
	Analyze(doc palette.Document) (*model.AnalysisResult, error)
}

// Engine resolves a Document from a URL, markup or snapshot and analyses it.
type Engine struct {
	fetcher  Fetcher
	analyzer documentAnalyzer
}

// NewEngine returns an Engine fetching pages with fetcher.
func NewEngine(fetcher Fetcher, a documentAnalyzer) *Engine {
	return &Engine{
		fetcher:  fetcher,
		analyzer: a,
	}
}

// Analyze fetches a URL, parses the HTML and extracts its palette. The
// result reports targetURL as its URL.
func (e *Engine) Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error) {
	if err := ValidateURL(targetURL); err != nil {
		return nil, err
	}

	body, statusCode, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return nil, fetchError(err, statusCode)
	}
	defer func() { _ = body.Close() }()

	if statusCode >= 400 {
		return nil, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: statusCode,
			Message:        "The provided URL returned an error status.",
		}
	}

	doc, err := ParseHTML(body, targetURL)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.ParsingFailed,
			Message: "Failed to parse the HTML content.",
			Cause:   err,
		}
	}
	return e.analyzer.Analyze(doc)
}

// AnalyzeHTML extracts the palette of markup the caller already holds.
func (e *Engine) AnalyzeHTML(markup, location string) (*model.AnalysisResult, error) {
	doc, err := ParseHTML(strings.NewReader(markup), location)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.ParsingFailed,
			Message: "Failed to parse the HTML content.",
			Cause:   err,
		}
	}
	return e.analyzer.Analyze(doc)
}

// AnalyzeSnapshot extracts the palette of a rendered page's snapshot.
func (e *Engine) AnalyzeSnapshot(r io.Reader) (*model.AnalysisResult, error) {
	doc, err := LoadSnapshot(r)
	if err != nil {
		return nil, err
	}
	return e.analyzer.Analyze(doc)
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(targetURL string) error {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return &errs.AppError{Kind: errs.InvalidInput, Message: msgInvalidURL, Cause: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return &errs.AppError{Kind: errs.InvalidInput, Message: msgInvalidURL}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: "Only http and https URLs are supported.",
		}
	}
	return nil
}

func fetchError(err error, statusCode int) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "The provided URL took too long to respond.",
			Cause:   err,
		}
	}
	return &errs.AppError{
		Kind:           errs.Unreachable,
		UpstreamStatus: statusCode,
		Message:        "The provided URL could not be reached. Check the address.",
		Cause:          err,
	}
}
