package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageflow/pkg/config"
	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/pipeline"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone
	if mutate != nil {
		mutate(&cfg)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewServer(pipeline.NewRunner(nil, nil, logger), logger, cfg)
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/paginate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPaginateDocument(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{
	  "format": "json",
	  "document": {"type": "DOCUMENT", "children": [{
	    "type": "PAGE",
	    "style": {"width": 200, "height": 100},
	    "children": [
	      {"type": "VIEW", "style": {"height": 60}},
	      {"type": "VIEW", "style": {"height": 60}}
	    ]
	  }]}
	}`
	rec := post(t, s, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID       string `json:"id"`
		Document struct {
			Children []struct {
				PageNumber int `json:"pageNumber"`
			} `json:"children"`
		} `json:"document"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" {
		t.Error("response should carry a result id")
	}
	if got := len(resp.Document.Children); got != 2 {
		t.Fatalf("pages = %d, want 2", got)
	}
	if resp.Document.Children[1].PageNumber != 2 {
		t.Errorf("second page number = %d", resp.Document.Children[1].PageNumber)
	}
}

func TestPaginateMarkdown(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"format": "markdown", "source": "# Hi\n\nBody", "markdown": {"footer": "{{.PageNumber}}/{{.TotalPages}}"}}`
	rec := post(t, s, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"1/1"`) {
		t.Errorf("footer not rendered: %s", rec.Body.String())
	}
}

func TestPaginateSVG(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/paginate?output=svg",
		strings.NewReader(`{"format": "markdown", "source": "Hello"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") || !strings.Contains(rec.Body.String(), ">Hello<") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPaginateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   perrors.Code
	}{
		{"malformed body", `{`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"unknown field", `{"colour": 1}`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"unknown format", `{"format": "yaml", "source": "x"}`, http.StatusBadRequest, perrors.ErrCodeInvalidFormat},
		{"missing document", `{"format": "json"}`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"invalid document", `{"document": {"type": "VIEW"}}`, http.StatusBadRequest, perrors.ErrCodeInvalidDocument},
		{"bad page size", `{"document": {"type": "PAGE"}, "page_size": {"width": -1, "height": 1}}`, http.StatusBadRequest, perrors.ErrCodeInvalidInput},
	}
	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["code"] != string(tt.code) {
				t.Errorf("code = %q, want %q", resp["code"], tt.code)
			}
		})
	}
}

func TestPaginateBodyLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.MaxBodyBytes = 64 })
	body := fmt.Sprintf(`{"format": "markdown", "source": %q}`, strings.Repeat("x", 256))
	rec := post(t, s, body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{perrors.New(perrors.ErrCodeInvalidDocument, "x"), http.StatusBadRequest},
		{perrors.New(perrors.ErrCodeLayoutDeadlock, "x"), http.StatusUnprocessableEntity},
		{perrors.New(perrors.ErrCodeCollaborator, "x"), http.StatusInternalServerError},
		{fmt.Errorf("paginate: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{})
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "418") {
		t.Errorf("log output should contain the status: %q", buf.String())
	}
}
