package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/matzehuels/pageflow/pkg/boxes"
	"github.com/matzehuels/pageflow/pkg/cache"
	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/source/markdown"
)

const twoPages = `{
  "type": "DOCUMENT",
  "children": [{
    "type": "PAGE",
    "style": {"width": 200, "height": 100},
    "children": [
      {"type": "VIEW", "style": {"height": 40}},
      {"type": "VIEW", "style": {"height": 40}},
      {"type": "VIEW", "style": {"height": 40}}
    ]
  }]
}`

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: []byte(twoPages)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Format != FormatJSON {
		t.Errorf("Format = %q, want %q", opts.Format, FormatJSON)
	}
	if opts.PageSize != boxes.A4 {
		t.Errorf("PageSize = %+v, want A4", opts.PageSize)
	}
	if opts.Metrics.FontSize != 16 || opts.MaxFragments <= 0 || opts.CacheTTL != DefaultTTL {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code perrors.Code
	}{
		{"empty source", Options{}, perrors.ErrCodeInvalidInput},
		{"unknown format", Options{Format: "yaml", Source: []byte("x")}, perrors.ErrCodeInvalidFormat},
		{"negative page", Options{Source: []byte("x"), PageSize: boxes.Size{Width: -1, Height: 10}}, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !perrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteJSON(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{Source: []byte(twoPages)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.ID == "" {
		t.Error("result should have an ID")
	}
	if result.Pages() != 2 {
		t.Fatalf("pages = %d, want 2", result.Pages())
	}
	if result.Stats.Templates != 1 || result.Stats.Pages != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	for i, page := range result.Document.Children {
		if page.PageNumber != i+1 {
			t.Errorf("page %d numbered %d", i, page.PageNumber)
		}
	}
	if result.CacheInfo.LayoutHit {
		t.Error("null cache should never hit")
	}
}

func TestExecuteMarkdown(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{
		Format:   FormatMarkdown,
		Source:   []byte("# Title\n\nSome text.\n\n---\n\nNext page.\n"),
		Markdown: markdown.Options{Footer: "{{.PageNumber}} / {{.TotalPages}}"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Pages() != 2 {
		t.Fatalf("pages = %d, want 2", result.Pages())
	}
	last := result.Document.Children[1]
	footer := last.Children[len(last.Children)-1]
	if got := footer.Content(); got != "2 / 2" {
		t.Errorf("footer = %q, want %q", got, "2 / 2")
	}
}

func TestExecuteCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Source: []byte(twoPages)})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, Options{Source: []byte(twoPages)})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit")
	}
	if second.DocumentHash != first.DocumentHash {
		t.Errorf("hash changed: %s != %s", second.DocumentHash, first.DocumentHash)
	}
	a, _ := json.Marshal(first.Document)
	b, _ := json.Marshal(second.Document)
	if !bytes.Equal(a, b) {
		t.Error("cached document differs from computed document")
	}

	refreshed, err := r.Execute(ctx, Options{Source: []byte(twoPages), Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheInfo.LayoutHit {
		t.Error("refresh should bypass the cache")
	}

	other, err := r.Execute(ctx, Options{Source: []byte(twoPages), PageSize: boxes.Size{Width: 300, Height: 400}})
	if err != nil {
		t.Fatalf("Execute with other page size: %v", err)
	}
	if other.CacheInfo.LayoutHit {
		t.Error("different layout options should not share a cache entry")
	}
}

func TestExecuteMarkdownCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	ctx := context.Background()
	opts := Options{Format: FormatMarkdown, Source: []byte("Hello\n")}

	if first, err := r.Execute(ctx, opts); err != nil || first.CacheInfo.SourceHit {
		t.Fatalf("first Execute = %+v, %v", first, err)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.SourceHit || !second.CacheInfo.LayoutHit {
		t.Errorf("cache info = %+v, want both hits", second.CacheInfo)
	}

	opts.Markdown.Header = "Report"
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.SourceHit {
		t.Error("changed markdown options should not reuse the converted document")
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Source: []byte(`{"type": "VIEW"}`)})
	if !perrors.Is(err, perrors.ErrCodeInvalidDocument) {
		t.Errorf("err = %v, want %s", err, perrors.ErrCodeInvalidDocument)
	}
}

func TestWriteResult(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{Source: []byte(twoPages)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteResult(&buf, result); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	var decoded struct {
		ID       string `json:"id"`
		Document struct {
			Children []json.RawMessage `json:"children"`
		} `json:"document"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != result.ID || len(decoded.Document.Children) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestRunnerClose(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
