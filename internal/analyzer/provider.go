package analyzer

import (
	"context"
	"io"

	"github.com/Bahjat/page-palette/internal/model"
)

// PaletteProvider defines the contract for any palette extraction engine.
type PaletteProvider interface {
	Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error)
	AnalyzeHTML(markup, location string) (*model.AnalysisResult, error)
	AnalyzeSnapshot(snapshot io.Reader) (*model.AnalysisResult, error)
}

// BatchProvider analyses several URLs in one call.
type BatchProvider interface {
	AnalyzeAll(ctx context.Context, urls []string) ([]model.BatchItem, error)
}
