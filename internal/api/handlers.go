package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/pageflow/pkg/boxes"
	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/pipeline"
	"github.com/matzehuels/pageflow/pkg/render/svg"
	"github.com/matzehuels/pageflow/pkg/source/markdown"
	"github.com/matzehuels/pageflow/pkg/text"
)

// paginateRequest is the body of POST /v1/paginate. JSON documents go in
// Document, Markdown text in Source.
type paginateRequest struct {
	Format       string           `json:"format"`
	Document     json.RawMessage  `json:"document,omitempty"`
	Source       string           `json:"source,omitempty"`
	Markdown     markdown.Options `json:"markdown"`
	PageSize     *boxes.Size      `json:"page_size,omitempty"`
	Metrics      *text.Metrics    `json:"metrics,omitempty"`
	MaxFragments int              `json:"max_fragments,omitempty"`
	Refresh      bool             `json:"refresh,omitempty"`
}

// handlePaginate paginates the request document. The query parameter
// output=svg returns an SVG preview instead of the JSON result.
func (s *Server) handlePaginate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	var req paginateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", "", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid request body: "+err.Error(), perrors.ErrCodeInvalidInput, http.StatusBadRequest)
		return
	}

	opts, err := s.options(req)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.log.Warn("paginate failed", "error", err)
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("output") == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Pageflow-Result-Id", result.ID)
		w.WriteHeader(http.StatusOK)
		w.Write(svg.Render(result.Document, svg.WithPageLabels()))
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// options merges the request over the server configuration.
func (s *Server) options(req paginateRequest) (pipeline.Options, error) {
	size, err := s.cfg.PageSize()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Format:       req.Format,
		Markdown:     req.Markdown,
		PageSize:     size,
		Metrics:      s.cfg.Text,
		MaxFragments: s.cfg.Pagination.MaxFragments,
		CacheTTL:     s.cfg.Cache.TTL.Duration,
		Refresh:      req.Refresh,
		Logger:       s.log,
	}
	if opts.Format == "" {
		opts.Format = pipeline.FormatJSON
	}
	switch opts.Format {
	case pipeline.FormatMarkdown:
		opts.Source = []byte(req.Source)
	default:
		opts.Source = req.Document
	}
	if req.PageSize != nil {
		opts.PageSize = *req.PageSize
	}
	if req.Metrics != nil {
		opts.Metrics = *req.Metrics
	}
	if req.MaxFragments > 0 {
		opts.MaxFragments = req.MaxFragments
	}
	return opts, nil
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch perrors.GetCode(err) {
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidDocument, perrors.ErrCodeInvalidFormat, perrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case perrors.ErrCodeLayoutDeadlock:
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	jsonError(w, perrors.UserMessage(err), perrors.GetCode(err), statusFor(err))
}

func jsonError(w http.ResponseWriter, msg string, code perrors.Code, status int) {
	body := map[string]string{"error": msg}
	if code != "" {
		body["code"] = string(code)
	}
	jsonResponse(w, status, body)
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
