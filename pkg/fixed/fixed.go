// Package fixed repeats fixed page content on every generated fragment.
//
// Fixed children of a template page are either cloned unchanged or, when
// they carry a render function, rendered afresh for the fragment and
// re-measured through a [BoxResolver]. Every fragment receives its own
// copies; nothing is shared between fragments.
package fixed

import (
	"context"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/node"
)

// BoxResolver resolves the boxes of a subtree placed inside parent.
// [boxes.Resolver] implements it.
type BoxResolver interface {
	Resolve(ctx context.Context, n *node.Node, parent node.Box) (*node.Node, error)
}

// Layout splits the children of a template page into the fixed children
// placed before the flowed content, the flowed children, and the fixed
// children placed after it. Fixed children preceding every flow child lead;
// the others trail. A page without flow children leads with all of them.
type Layout struct {
	Leading  []*node.Node
	Flow     []*node.Node
	Trailing []*node.Node
}

// Partition returns the layout of page's children.
func Partition(page *node.Node) Layout {
	var l Layout
	for _, c := range page.Children {
		switch {
		case !c.Props.Fixed:
			l.Flow = append(l.Flow, c)
		case len(l.Flow) == 0:
			l.Leading = append(l.Leading, c)
		default:
			l.Trailing = append(l.Trailing, c)
		}
	}
	return l
}

// Dynamic reports whether any fixed child has a render function.
func (l Layout) Dynamic() bool {
	for _, c := range l.Leading {
		if c.Props.Dynamic() {
			return true
		}
	}
	for _, c := range l.Trailing {
		if c.Props.Dynamic() {
			return true
		}
	}
	return false
}

// Repeater produces per-fragment copies of fixed content.
type Repeater struct {
	Resolver BoxResolver
}

// New returns a repeater measuring rendered content with r.
func New(r BoxResolver) *Repeater {
	return &Repeater{Resolver: r}
}

// Render returns fresh copies of nodes for a fragment. Static nodes are
// deep-cloned with their boxes. Dynamic nodes are rendered with rc, the
// result becomes their only child, and the node is resolved inside page.
func (r *Repeater) Render(ctx context.Context, nodes []*node.Node, page node.Box, rc node.RenderContext) ([]*node.Node, error) {
	out := make([]*node.Node, 0, len(nodes))
	for _, n := range nodes {
		c, err := r.render(ctx, n, page, rc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Repeater) render(ctx context.Context, n *node.Node, page node.Box, rc node.RenderContext) (*node.Node, error) {
	if !n.Props.Dynamic() {
		return n.Clone(), nil
	}
	if r.Resolver == nil {
		return nil, perrors.New(perrors.ErrCodeInternal, "no box resolver for dynamic %s", n.Type)
	}

	content, err := n.Props.Render(ctx, rc)
	if err != nil {
		return nil, perrors.Collaborator(err, "render fixed %s on page %d", n.Type, rc.PageNumber)
	}
	shell := n.Shell()
	if content != nil {
		shell.Children = []*node.Node{content}
	}
	// Stale boxes must not leak into the new measurement.
	shell.Box.Height = 0
	shell.Lines = nil

	resolved, err := r.Resolver.Resolve(ctx, shell, page)
	if err != nil {
		return nil, perrors.Collaborator(err, "resolve fixed %s on page %d", n.Type, rc.PageNumber)
	}
	return resolved, nil
}

// Height returns the flow height the rendered fixed nodes occupy.
func Height(nodes []*node.Node) float64 {
	var h float64
	for _, n := range nodes {
		if !n.Style.IsAbsolute() {
			h += n.Box.Height
		}
	}
	return h
}
