package model

import (
	"errors"
	"time"

	"github.com/Bahjat/page-palette/internal/platform/errs"
)

// AnalysisResult holds the colour palette and font extracted from one page.
// Colour fields are canonical colours, or nil when nothing was detected.
type AnalysisResult struct {
	BackgroundColor      *string   `json:"background_color"`
	PrimaryColorFont     *string   `json:"primary_color_font"`
	PrimaryColorButton   *string   `json:"primary_color_button"`
	SecondaryColorFont   *string   `json:"secondary_color_font"`
	SecondaryColorButton *string   `json:"secondary_color_button"`
	Font                 string    `json:"font"`
	AnalysisTimestamp    time.Time `json:"analysis_timestamp"`
	URL                  string    `json:"url"`
}

// AnalysisFailure is the JSON shape reported when extraction fails.
type AnalysisFailure struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// FailureFromError converts an extraction error into the failure record.
// The details carry the underlying fault's message.
func FailureFromError(err error) AnalysisFailure {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		details := appErr.Message
		if appErr.Cause != nil {
			details = appErr.Cause.Error()
		}
		return AnalysisFailure{Error: appErr.Message, Details: details}
	}
	return AnalysisFailure{Error: errs.MsgAnalysisFailed, Details: err.Error()}
}

// BatchItem is the outcome of analysing one URL of a batch. Exactly one of
// Result and Failure is set.
type BatchItem struct {
	URL     string           `json:"url"`
	Result  *AnalysisResult  `json:"result,omitempty"`
	Failure *AnalysisFailure `json:"failure,omitempty"`
}

// BatchResponse is the JSON shape of a batch analysis.
type BatchResponse struct {
	Items []BatchItem `json:"items"`
}

// ErrorResponse is the JSON shape returned on request-level failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
