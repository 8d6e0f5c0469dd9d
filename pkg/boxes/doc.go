// Package boxes assigns a resolved [node.Box] to every node of a document.
//
// The resolver implements a vertical block model: in-flow children stack
// from the top of their parent and take its width unless they carry an
// explicit or percentage width; their parent's height is their summed
// height unless it has an explicit one. TEXT nodes are broken into lines
// with package text. Absolutely positioned children are placed from their
// top/left/bottom/right anchors after the parent height is known, and a
// child anchored at both top and bottom stretches to fill its parent.
//
// Pages take their size from an explicit style width/height, from the
// "size" and "orientation" props, or from the configured default.
//
// The resolver is the box-resolution collaborator of the pagination engine:
// pagination calls it once on the input document and again on freshly
// rendered fixed content. It never mutates its input.
package boxes
