// Package node defines the document tree consumed and produced by pagination.
//
// A document is a tree of tagged nodes: a DOCUMENT root holding template
// PAGE nodes, which in turn hold VIEW containers, TEXT nodes and their
// TEXT_INSTANCE runs. Every node carries a resolved [Box] produced by a
// box-resolution pass (see package boxes); pagination only ever rewrites
// box heights and tops on the pieces it creates.
//
// # Value Semantics
//
// Nodes are plain data. Use [Node.Clone] whenever a node must be placed in
// more than one tree: pagination never shares a node between two fragments.
//
// # JSON
//
// Nodes round-trip through JSON using the field names of the original
// document format:
//
//	{
//	  "type": "PAGE",
//	  "style": {"width": 200, "height": 500},
//	  "props": {"wrap": true},
//	  "children": [
//	    {"type": "VIEW", "style": {"position": "absolute", "width": "50%", "top": 0, "bottom": 0}},
//	    {"type": "TEXT", "children": [{"type": "TEXT_INSTANCE", "value": "Hello"}]}
//	  ]
//	}
//
// Render callables cannot be serialized; the "render" prop carries a template
// string instead (see package template).
package node
