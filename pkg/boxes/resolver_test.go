package boxes

import (
	"context"
	"testing"

	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/text"
)

func page(w, h float64, children ...*node.Node) *node.Node {
	p := node.New(node.TypePage, children...)
	p.Style.Width = node.Pt(w)
	p.Style.Height = node.Pt(h)
	return p
}

func resolve(t *testing.T, n *node.Node) *node.Node {
	t.Helper()
	out, err := New(A4, text.DefaultMetrics()).Resolve(context.Background(), n, node.Box{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return out
}

func TestResolveStretchedAbsolute(t *testing.T) {
	view := &node.Node{Type: node.TypeView, Style: node.Style{
		Position: node.PositionAbsolute,
		Width:    node.Pct(50),
		Top:      node.Float(0),
		Bottom:   node.Float(0),
	}}
	doc := node.New(node.TypeDocument, page(100, 100, view, node.NewText("hello world")))

	out := resolve(t, doc)
	p := out.Children[0]
	gotView, gotText := p.Children[0], p.Children[1]

	if p.Box.Height != 100 {
		t.Errorf("page height = %v, want 100", p.Box.Height)
	}
	if gotView.Box.Height != 100 || gotView.Box.Width != 50 {
		t.Errorf("view box = %+v, want 50x100", gotView.Box)
	}
	if gotText.Box.Top != 0 {
		t.Errorf("text top = %v, want 0 (absolute sibling is out of flow)", gotText.Box.Top)
	}
	if gotText.Box.Height != 20 {
		t.Errorf("text height = %v, want 20", gotText.Box.Height)
	}
}

func TestResolveStacksFlowChildren(t *testing.T) {
	a := &node.Node{Type: node.TypeView, Style: node.Style{Height: node.Pt(40)}}
	inner := &node.Node{Type: node.TypeView, Style: node.Style{Height: node.Pt(40)}}
	wrapper := node.New(node.TypeView, inner)
	doc := node.New(node.TypeDocument, page(5, 60, a, wrapper))

	out := resolve(t, doc)
	got := out.Children[0].Children

	if got[0].Box.Top != 0 || got[0].Box.Height != 40 {
		t.Errorf("first box = %+v", got[0].Box)
	}
	if got[1].Box.Top != 40 || got[1].Box.Height != 40 {
		t.Errorf("wrapper box = %+v, want top 40 height 40", got[1].Box)
	}
	if got[1].Box.Width != 5 {
		t.Errorf("wrapper width = %v, want 5", got[1].Box.Width)
	}
}

func TestResolveTextLines(t *testing.T) {
	doc := node.New(node.TypeDocument, page(15, 60, node.New(node.TypeView, node.NewText("a a a a"))))
	out := resolve(t, doc)

	view := out.Children[0].Children[0]
	if view.Box.Height != 80 {
		t.Errorf("view height = %v, want 80", view.Box.Height)
	}
	if n := len(view.Children[0].Lines); n != 4 {
		t.Errorf("lines = %d, want 4", n)
	}
}

func TestResolveAnchors(t *testing.T) {
	footer := &node.Node{Type: node.TypeView, Style: node.Style{
		Position: node.PositionAbsolute,
		Height:   node.Pt(10),
		Bottom:   node.Float(5),
		Left:     node.Float(10),
		Right:    node.Float(10),
	}}
	out := resolve(t, node.New(node.TypeDocument, page(100, 200, footer)))
	got := out.Children[0].Children[0].Box

	if got.Top != 185 {
		t.Errorf("top = %v, want 185", got.Top)
	}
	if got.Left != 10 || got.Width != 80 {
		t.Errorf("left/width = %v/%v, want 10/80", got.Left, got.Width)
	}
}

func TestResolvePercentHeight(t *testing.T) {
	child := &node.Node{Type: node.TypeView, Style: node.Style{Height: node.Pct(25)}}
	out := resolve(t, node.New(node.TypeDocument, page(100, 200, child)))
	if got := out.Children[0].Children[0].Box.Height; got != 50 {
		t.Errorf("height = %v, want 50", got)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	doc := node.New(node.TypeDocument, page(100, 100, node.NewText("x")))
	_ = resolve(t, doc)
	if doc.Children[0].Box.Height != 0 {
		t.Error("input document was mutated")
	}
	if doc.Children[0].Children[0].Lines != nil {
		t.Error("input text was laid out in place")
	}
}

func TestResolveFragment(t *testing.T) {
	header := node.New(node.TypeView, &node.Node{Type: node.TypeText, Style: node.Style{Height: node.Pt(50)}})
	out, err := New(A4, text.DefaultMetrics()).Resolve(context.Background(), header, node.Box{Width: 200, Height: 500})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Box.Height != 50 || out.Box.Width != 200 {
		t.Errorf("box = %+v, want 200x50", out.Box)
	}
}

func TestResolveAbsoluteFragment(t *testing.T) {
	footer := &node.Node{Type: node.TypeView, Style: node.Style{
		Position: node.PositionAbsolute,
		Height:   node.Pt(20),
		Bottom:   node.Float(10),
		Left:     node.Float(5),
		Right:    node.Float(5),
	}}
	out, err := New(A4, text.DefaultMetrics()).Resolve(context.Background(), footer, node.Box{Width: 200, Height: 500})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := node.Box{Top: 470, Left: 5, Width: 190, Height: 20}
	if out.Box != want {
		t.Errorf("box = %+v, want %+v", out.Box, want)
	}
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(A4, text.DefaultMetrics()).Resolve(ctx, node.New(node.TypeDocument), node.Box{}); err == nil {
		t.Error("expected context error")
	}
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		name string
		page *node.Node
		want Size
	}{
		{"default", node.New(node.TypePage), A4},
		{"named", &node.Node{Type: node.TypePage, Props: node.Props{Size: "letter"}}, Size{612, 792}},
		{"landscape", &node.Node{Type: node.TypePage, Props: node.Props{Size: "A4", Orientation: "landscape"}}, Size{841.89, 595.28}},
		{"explicit wins", page(100, 50), Size{100, 50}},
		{"partial explicit", &node.Node{Type: node.TypePage, Style: node.Style{Height: node.Pt(300)}}, Size{595.28, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageSize(tt.page, A4); got != tt.want {
				t.Errorf("PageSize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
