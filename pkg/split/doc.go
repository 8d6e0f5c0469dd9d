// Package split implements the flow splitter: given a node and an available
// height it returns the part that fits and the part that remains.
//
// # Rules
//
// A node whose box fits the available height is placed whole. Otherwise the
// node is dispatched by kind:
//
//   - TEXT with laid-out lines: the line-fitting collaborator decides how
//     many lines fit; the fit and the rest become two new TEXT nodes.
//   - Atomic nodes (leaves, and containers with wrap:false): deferred whole
//     to the next page, unless nothing has been placed on the current page
//     yet. In that case the node is force-clipped to the available height
//     and the overflow is carried as a remainder, which guarantees progress.
//   - Containers: children are placed in order while they fit; the first
//     child that does not fit is split recursively and every later child
//     moves to the remainder. A container whose fit would hold no in-flow
//     content defers whole, so a wrap:false descendant drags its ancestors
//     along.
//
// Fixed and absolutely positioned children do not consume flow height.
// Absolute children stay with the piece whose height range contains their
// top edge; fixed descendants stay in the fit piece and never reach a
// remainder.
//
// A child with the break prop starts the remainder, unless it is the first
// content of a fresh page.
//
// The splitter never mutates its input: placed-whole nodes are returned as
// is and every new piece is a fresh shell.
package split
