package boxes

import (
	"context"

	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/text"
)

// Resolver computes boxes for document trees.
type Resolver struct {
	Page    Size
	Metrics text.Metrics
}

// New returns a resolver using page as the default page size.
// A zero page falls back to A4.
func New(page Size, m text.Metrics) *Resolver {
	if page.Width <= 0 || page.Height <= 0 {
		page = A4
	}
	return &Resolver{Page: page, Metrics: m.WithDefaults()}
}

// Resolve returns a copy of n with every box resolved. parent is the box of
// the node n will be placed in; it supplies the containing width and height
// for non-page nodes and is ignored for DOCUMENT and PAGE roots. An
// absolutely positioned root is also anchored inside parent.
func (r *Resolver) Resolve(ctx context.Context, n *node.Node, parent node.Box) (*node.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := n.Clone()
	switch out.Type {
	case node.TypeDocument:
		out.Box = node.Box{}
		for _, page := range out.Children {
			r.page(page)
		}
	case node.TypePage:
		r.page(out)
	default:
		r.layout(out, parent.Width, parent.Height)
		if out.Style.IsAbsolute() {
			out.Box.Top = anchor(out.Style.Top, out.Style.Bottom, parent.Height, out.Box.Height)
			out.Box.Left = anchor(out.Style.Left, out.Style.Right, parent.Width, out.Box.Width)
		}
	}
	return out, nil
}

// PageSize returns the resolved size of a template page.
func (r *Resolver) PageSize(page *node.Node) Size {
	return PageSize(page, r.Page)
}

func (r *Resolver) page(p *node.Node) {
	size := r.PageSize(p)
	p.Box = node.Box{Width: size.Width, Height: size.Height}
	r.children(p, size.Height)
}

// layout resolves n inside a containing box of pw x ph. A zero ph means the
// containing height is not known yet.
func (r *Resolver) layout(n *node.Node, pw, ph float64) {
	n.Box.Width = r.width(n, pw)
	height, explicit := r.height(n, ph)

	if n.IsText() {
		if len(n.Lines) == 0 {
			n.Lines = text.Layout(n, n.Box.Width, r.Metrics)
		}
		if !explicit {
			height = text.Height(n.Lines)
		}
		n.Box.Height = height
		return
	}

	containing := 0.0
	if explicit {
		containing = height
	}
	flow := r.flow(n, containing)
	if !explicit {
		height = flow
	}
	n.Box.Height = height
	r.absolutes(n)
}

// children lays out the children of a node whose height is already known.
func (r *Resolver) children(n *node.Node, height float64) {
	r.flow(n, height)
	r.absolutes(n)
}

// flow stacks the positioned-in-flow children of n and returns their height.
// Non-absolute fixed children take part: they occupy space on the page.
func (r *Resolver) flow(n *node.Node, containing float64) float64 {
	var y float64
	for _, c := range n.Children {
		if c.Type == node.TypeTextInstance || c.Style.IsAbsolute() {
			continue
		}
		r.layout(c, n.Box.Width, containing)
		c.Box.Top = y
		c.Box.Left = 0
		y += c.Box.Height
	}
	return y
}

func (r *Resolver) absolutes(n *node.Node) {
	for _, c := range n.Children {
		if !c.Style.IsAbsolute() {
			continue
		}
		r.layout(c, n.Box.Width, n.Box.Height)
		c.Box.Top = anchor(c.Style.Top, c.Style.Bottom, n.Box.Height, c.Box.Height)
		c.Box.Left = anchor(c.Style.Left, c.Style.Right, n.Box.Width, c.Box.Width)
	}
}

func (r *Resolver) width(n *node.Node, pw float64) float64 {
	s := n.Style
	switch {
	case s.Width != nil:
		return s.Width.Resolve(pw)
	case s.IsAbsolute() && s.Left != nil && s.Right != nil:
		return max(0, pw-*s.Left-*s.Right)
	default:
		return pw
	}
}

// height returns the explicit height of n, if it has one.
func (r *Resolver) height(n *node.Node, ph float64) (float64, bool) {
	s := n.Style
	switch {
	case s.Height != nil && !s.Height.Percent:
		return s.Height.Value, true
	case s.Height != nil && ph > 0:
		return s.Height.Resolve(ph), true
	case s.Stretched() && ph > 0:
		return max(0, ph-*s.Top-*s.Bottom), true
	default:
		return 0, false
	}
}

// anchor positions a box of size extent inside size from a leading or
// trailing offset.
func anchor(lead, trail *float64, size, extent float64) float64 {
	switch {
	case lead != nil:
		return *lead
	case trail != nil:
		return size - *trail - extent
	default:
		return 0
	}
}
