package split

import (
	"context"
	"strings"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/text"
)

// epsilon absorbs float noise when comparing heights.
const epsilon = 1e-6

// LineFitter decides how many lines of a laid-out TEXT node fit a height.
type LineFitter interface {
	FitLines(ctx context.Context, n *node.Node, available float64) (fit, rest []node.Line, err error)
}

// Splitter splits nodes at an available height.
type Splitter struct {
	Fitter LineFitter
}

// New returns a splitter using f for TEXT nodes. A nil f uses text.Fitter.
func New(f LineFitter) *Splitter {
	if f == nil {
		f = text.Fitter{}
	}
	return &Splitter{Fitter: f}
}

// Split returns the part of n that fits in available and the remainder.
// Either may be nil: a nil fit defers n to the next page, a nil remainder
// means n fits whole. fresh reports that nothing has been placed on the
// current page yet, which enables forced clipping of atomic content.
func (s *Splitter) Split(ctx context.Context, n *node.Node, available float64, fresh bool) (*node.Node, *node.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if fits(n, available) {
		return n, nil, nil
	}
	if fresh && available <= epsilon && n.Box.Height > epsilon {
		return nil, nil, perrors.New(perrors.ErrCodeLayoutDeadlock,
			"%s of height %v cannot progress on a page with %v flow height", n.Type, n.Box.Height, available)
	}

	switch {
	case n.IsText() && len(n.Lines) > 0 && n.Props.CanWrap():
		return s.splitText(ctx, n, available, fresh)
	case !n.Props.CanWrap() || !n.HasFlowChildren():
		return splitAtomic(n, available, fresh)
	default:
		return s.splitContainer(ctx, n, available, fresh)
	}
}

// SplitChildren splits an ordered run of siblings as one implicit container
// and returns the siblings, or pieces of them, that fit and those that
// remain, both in document order.
func (s *Splitter) SplitChildren(ctx context.Context, children []*node.Node, available float64, fresh bool) ([]*node.Node, []*node.Node, error) {
	var (
		fitSlots  = make([]*node.Node, len(children))
		restSlots = make([]*node.Node, len(children))
		remaining = available
		consumed  float64
		placed    bool
		cut       bool
	)

	for i, c := range children {
		switch {
		case c.Props.Fixed:
			fitSlots[i] = c
			continue
		case c.Style.IsAbsolute():
			continue
		case cut:
			restSlots[i] = c
			continue
		}

		atTop := fresh && !placed
		if c.Props.Break && !atTop {
			restSlots[i] = withoutBreak(c)
			cut = true
			continue
		}

		if fits(c, remaining) {
			fitSlots[i] = c
			remaining -= c.Box.Height
			consumed += c.Box.Height
			placed = consumed > epsilon
			continue
		}

		f, r, err := s.Split(ctx, c, remaining, atTop)
		if err != nil {
			return nil, nil, err
		}
		if f != nil {
			fitSlots[i] = f
			remaining -= f.Box.Height
			consumed += f.Box.Height
			placed = consumed > epsilon
		}
		if r != nil {
			restSlots[i] = r
			cut = true
		}
	}

	for i, c := range children {
		if c.Props.Fixed || !c.Style.IsAbsolute() {
			continue
		}
		if !cut || c.Box.Top < consumed-epsilon {
			fitSlots[i] = c
			continue
		}
		moved := c.Clone()
		moved.Box.Top -= consumed
		restSlots[i] = moved
	}

	return compact(fitSlots), compact(restSlots), nil
}

func (s *Splitter) splitContainer(ctx context.Context, n *node.Node, available float64, fresh bool) (*node.Node, *node.Node, error) {
	fitKids, restKids, err := s.SplitChildren(ctx, n.Children, available, fresh)
	if err != nil {
		return nil, nil, err
	}
	if !hasFlow(fitKids) {
		return nil, n, nil
	}
	if len(restKids) == 0 {
		if n.Box.Height <= available+epsilon {
			whole := n.Shell()
			whole.Children = fitKids
			return whole, nil, nil
		}
		// The children fit but the box itself is taller than the page.
		if !fresh {
			return nil, n, nil
		}
		restKids = nil
	}

	// A container split for space fills the page. One cut by a forced break
	// keeps its consumed height. Either way the remainder carries the rest
	// of the original height so that fragment heights add up to it.
	fit := n.Shell()
	fit.Children = fitKids
	fit.Box.Height = available
	if n.Box.Height <= available+epsilon {
		fit.Box.Height = node.FlowHeight(fitKids)
	}

	rest := n.Shell()
	rest.Children = restKids
	rest.Box.Height = max(0, n.Box.Height-fit.Box.Height)
	rest.Props.Break = false
	return fit, rest, nil
}

func (s *Splitter) splitText(ctx context.Context, n *node.Node, available float64, fresh bool) (*node.Node, *node.Node, error) {
	fitLines, restLines, err := s.Fitter.FitLines(ctx, n, available)
	if err != nil {
		return nil, nil, perrors.Collaborator(err, "fit lines")
	}
	if len(restLines) == 0 {
		// Every line fits but an explicit height does not.
		return splitAtomic(n, available, fresh)
	}

	clip := false
	if len(fitLines) == 0 {
		if !fresh {
			return nil, n, nil
		}
		// Nothing is above us: drop orphans/widows and take what fits, or
		// clip the first line when not even one fits.
		k := text.Greedy(n.Lines, available)
		if k == 0 {
			k, clip = 1, true
		}
		fitLines, restLines = n.Lines[:k], n.Lines[k:]
	}

	fit := textPiece(n, fitLines)
	if clip {
		fit.Box.Height = available
	}
	if len(restLines) == 0 {
		return fit, nil, nil
	}
	rest := textPiece(n, restLines)
	rest.Box.Height = max(0, n.Box.Height-fit.Box.Height)
	rest.Props.Break = false
	return fit, rest, nil
}

func splitAtomic(n *node.Node, available float64, fresh bool) (*node.Node, *node.Node, error) {
	if !fresh {
		return nil, n, nil
	}
	fit := n.Clone()
	fit.Box.Height = available

	rest := n.Shell()
	rest.Lines = nil
	rest.Box.Height = n.Box.Height - available
	rest.Props.Break = false
	return fit, rest, nil
}

func textPiece(n *node.Node, lines []node.Line) *node.Node {
	piece := n.Shell()
	piece.Lines = append([]node.Line(nil), lines...)
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text
	}
	piece.Children = []*node.Node{{Type: node.TypeTextInstance, Value: strings.Join(parts, " ")}}
	piece.Box.Height = text.Height(lines)
	return piece
}

// fits reports whether n can be placed whole. Wrappable containers holding
// a forced break never fit whole.
func fits(n *node.Node, available float64) bool {
	if n.Box.Height > available+epsilon {
		return false
	}
	return !(n.Props.CanWrap() && hasBreak(n))
}

func hasBreak(n *node.Node) bool {
	for _, c := range n.Children {
		if !c.InFlow() {
			continue
		}
		if c.Props.Break || (c.Props.CanWrap() && hasBreak(c)) {
			return true
		}
	}
	return false
}

func hasFlow(nodes []*node.Node) bool {
	for _, n := range nodes {
		if n.InFlow() {
			return true
		}
	}
	return false
}

func withoutBreak(n *node.Node) *node.Node {
	c := n.Clone()
	c.Props.Break = false
	return c
}

func compact(slots []*node.Node) []*node.Node {
	out := make([]*node.Node, 0, len(slots))
	for _, n := range slots {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
