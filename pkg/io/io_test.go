package io

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/node"
)

const sample = `{
  "type": "DOCUMENT",
  "children": [{
    "type": "PAGE",
    "style": {"width": 200, "height": "500"},
    "props": {"wrap": true},
    "children": [
      {"type": "VIEW", "props": {"fixed": true, "render": "Page {{.PageNumber}}"}},
      {"type": "VIEW", "style": {"position": "absolute", "width": "50%", "top": 0, "bottom": 0}},
      {"type": "TEXT", "children": [{"type": "TEXT_INSTANCE", "value": "Hello"}]}
    ]
  }]
}`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	page := doc.Children[0]
	if page.Style.Height == nil || page.Style.Height.Value != 500 {
		t.Errorf("page height = %+v, want 500", page.Style.Height)
	}
	footer := page.Children[0]
	if !footer.Props.Fixed || !footer.Props.Dynamic() {
		t.Fatal("footer should be fixed with a compiled render function")
	}
	out, err := footer.Props.Render(context.Background(), node.RenderContext{PageNumber: 4})
	if err != nil || out.Content() != "Page 4" {
		t.Errorf("render = %v, %v", out, err)
	}
	abs := page.Children[1]
	if !abs.Style.Stretched() || abs.Style.Width == nil || !abs.Style.Width.Percent {
		t.Errorf("absolute style = %+v", abs.Style)
	}
	if got := page.Children[2].Content(); got != "Hello" {
		t.Errorf("text = %q, want Hello", got)
	}
}

func TestReadJSONBarePage(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"type": "PAGE", "children": [{"type": "VIEW"}]}`))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.Type != node.TypeDocument || len(doc.Children) != 1 {
		t.Errorf("doc = %s with %d children", doc.Type, len(doc.Children))
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"type": `},
		{"unknown field", `{"type": "DOCUMENT", "kids": []}`},
		{"bad length", `{"type": "PAGE", "style": {"height": "tall"}}`},
		{"bad template", `{"type": "PAGE", "children": [{"type": "VIEW", "props": {"render": "{{"}}]}`},
		{"orphan instance", `{"type": "PAGE", "children": [{"type": "TEXT_INSTANCE", "value": "x"}]}`},
		{"root view", `{"type": "VIEW"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !perrors.Is(err, perrors.ErrCodeInvalidDocument) {
				t.Errorf("error = %v, want INVALID_DOCUMENT", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := ExportJSON(doc, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	again, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	var a, b bytes.Buffer
	_ = WriteJSON(doc, &a)
	_ = WriteJSON(again, &b)
	if a.String() != b.String() {
		t.Errorf("round trip changed the document:\n%s\n---\n%s", a.String(), b.String())
	}
	if !again.Children[0].Children[0].Props.Dynamic() {
		t.Error("render template lost in round trip")
	}
}

func TestImportJSONMissing(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
