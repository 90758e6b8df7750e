package errs

import "fmt"

// MsgAnalysisFailed is the fixed message of every extraction fault.
const MsgAnalysisFailed = "Failed to analyze website"

// Kind categorizes application errors for HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the request was malformed (HTTP 400).
	InvalidInput
	// Unreachable indicates the target URL could not be reached (HTTP 502).
	Unreachable
	// Timeout indicates the target took too long to respond (HTTP 504).
	Timeout
	// ParsingFailed indicates the response could not be parsed (HTTP 500).
	ParsingFailed
	// ExtractionFault indicates the document accessor failed while styles or
	// geometry were being read (HTTP 422).
	ExtractionFault
)

// String returns a short, log-friendly name for the kind.
func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Unreachable:
		return "unreachable"
	case Timeout:
		return "timeout"
	case ParsingFailed:
		return "parsing_failed"
	case ExtractionFault:
		return "extraction_fault"
	default:
		return "unknown"
	}
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the target domain
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Extraction wraps a document accessor failure as an ExtractionFault.
func Extraction(cause error) *AppError {
	return &AppError{Kind: ExtractionFault, Message: MsgAnalysisFailed, Cause: cause}
}
