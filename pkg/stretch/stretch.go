// Package stretch recomputes the height of absolutely positioned nodes that
// are anchored at both top and bottom, once the height of the fragment they
// landed in is final.
package stretch

import "github.com/matzehuels/pageflow/pkg/node"

// Resolve sets the height of every stretched node below root to its
// parent's height minus its top offset and bottom anchor, clamped at zero.
// Parents are resolved before their children, so nested stretched nodes
// follow the corrected height. root is modified in place and the number of
// resolved nodes is returned.
func Resolve(root *node.Node) int {
	count := 0
	node.Walk(root, func(n, parent *node.Node) bool {
		if parent == nil || !n.Style.Stretched() {
			return true
		}
		n.Box.Height = max(0, parent.Box.Height-n.Box.Top-*n.Style.Bottom)
		count++
		return true
	})
	return count
}
