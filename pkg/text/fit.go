package text

import (
	"context"

	"github.com/matzehuels/pageflow/pkg/node"
)

// Fitter is the line-fitting collaborator for laid-out TEXT nodes.
type Fitter struct{}

// FitLines returns the lines of n that fit in available, and the rest.
func (Fitter) FitLines(ctx context.Context, n *node.Node, available float64) ([]node.Line, []node.Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	fit, rest := FitLines(n.Lines, available, n.Props.Orphans, n.Props.Widows)
	return fit, rest, nil
}

// FitLines splits lines into the longest prefix whose height fits available
// and the remainder. When the text is split, at least orphans lines stay
// in the prefix and at least widows lines start the remainder; if both
// cannot hold the prefix is empty.
func FitLines(lines []node.Line, available float64, orphans, widows int) (fit, rest []node.Line) {
	n := Greedy(lines, available)
	if n == len(lines) {
		return lines, nil
	}
	if widows > 1 && len(lines)-n < widows {
		n = len(lines) - widows
	}
	if n < max(orphans, 1) {
		n = 0
	}
	return lines[:n], lines[n:]
}

// Greedy returns how many leading lines fit in available.
func Greedy(lines []node.Line, available float64) int {
	var used float64
	for i, l := range lines {
		if used+l.Height > available+epsilon {
			return i
		}
		used += l.Height
	}
	return len(lines)
}
