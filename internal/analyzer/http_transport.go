package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/page-palette/internal/model"
	"github.com/Bahjat/page-palette/internal/platform/errs"
)

const (
	analyzeTimeout = 60 * time.Second
	batchTimeout   = 5 * time.Minute

	maxRequestBody  = 1 << 20  // 1 MB
	maxDocumentBody = 10 << 20 // 10 MB, markup and snapshots
)

var (
	errURLRequired  = errors.New("the \"url\" field is required")
	errHTMLRequired = errors.New("the \"html\" field is required")
	errURLsRequired = errors.New("the \"urls\" field must list at least one URL")
)

// Transport handles HTTP requests for palette analysis.
type Transport struct {
	service *Service
	batch   BatchProvider
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service and
// batch provider.
func NewTransport(service *Service, batch BatchProvider, logger *slog.Logger) *Transport {
	return &Transport{service: service, batch: batch, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given router.
func (t *Transport) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", t.handleHealth)
	r.Route("/analyze", func(r chi.Router) {
		r.Post("/", t.handleAnalyze)
		r.Post("/html", t.handleAnalyzeHTML)
		r.Post("/snapshot", t.handleAnalyzeSnapshot)
		r.Post("/batch", t.handleAnalyzeBatch)
	})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (r analyzeRequest) validate() error {
	if r.URL == "" {
		return errURLRequired
	}
	return nil
}

type analyzeHTMLRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
}

func (r analyzeHTMLRequest) validate() error {
	if r.HTML == "" {
		return errHTMLRequired
	}
	return nil
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

func (r batchRequest) validate() error {
	if len(r.URLs) == 0 {
		return errURLsRequired
	}
	return nil
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (t *Transport) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return
	}
	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := t.service.Analyze(ctx, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, result)
}

func (t *Transport) handleAnalyzeHTML(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBody)

	var req analyzeHTMLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with an \"html\" field.")
		return
	}
	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := t.service.AnalyzeHTML(r.Context(), req.HTML, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, result)
}

func (t *Transport) handleAnalyzeSnapshot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBody)

	result, err := t.service.AnalyzeSnapshot(r.Context(), r.Body)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, result)
}

func (t *Transport) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"urls\" array.")
		return
	}
	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), batchTimeout)
	defer cancel()

	items, err := t.batch.AnalyzeAll(ctx, req.URLs)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, model.BatchResponse{Items: items})
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.Unreachable:
			status = http.StatusBadGateway
		case errs.Timeout:
			status = http.StatusGatewayTimeout
		case errs.ExtractionFault:
			t.renderJSON(w, http.StatusUnprocessableEntity, model.FailureFromError(err))
			return
		case errs.ParsingFailed, errs.Unknown:
			// 500 Internal Server Error
		}
		t.renderError(w, status, appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
