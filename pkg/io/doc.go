// Package io provides JSON import and export for document trees.
//
// # JSON Format
//
// A document is a tree of nodes. Every node has a "type" and optional
// "style", "props", "box", "lines" and "children":
//
//	{
//	  "type": "DOCUMENT",
//	  "children": [{
//	    "type": "PAGE",
//	    "props": {"size": "A5"},
//	    "children": [
//	      {"type": "VIEW", "props": {"fixed": true, "render": "Page {{.PageNumber}} of {{.TotalPages}}"}},
//	      {"type": "TEXT", "children": [{"type": "TEXT_INSTANCE", "value": "Hello"}]}
//	    ]
//	  }]
//	}
//
// A bare PAGE object is accepted and wrapped in a DOCUMENT. Boxes may be
// omitted; the pipeline resolves them before pagination.
//
// # Import
//
// [ReadJSON] and [ImportJSON] decode a document, compile its "render"
// templates and validate the tree structure. Errors carry the
// INVALID_DOCUMENT code.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a document, typically the paginated
// one, as indented JSON. Render functions are not serialized; the "render"
// template string is kept, so exported documents re-import identically.
package io
