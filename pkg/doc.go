// Package pkg provides the core libraries for pageflow document pagination.
//
// # Overview
//
// Pageflow takes a tree of template pages whose boxes have been resolved and
// slices it into fixed-size page fragments. Content that overflows a page is
// split and carried onto the next fragment, fixed headers and footers repeat
// on every fragment, and page-number-dependent content is rendered once the
// final page count is known.
//
// # Architecture
//
// The typical data flow:
//
//	JSON document / Markdown
//	         ↓
//	    [io], [source/markdown] (decode into a node tree)
//	         ↓
//	    [boxes] (resolve every node's box for the page size)
//	         ↓
//	    [paginate] (split flow content into fragments)
//	         ↓
//	    JSON document / [render/svg] preview
//
// [paginate] drives three smaller parts:
//
//   - [split]: divides a node at an available height into a fit and a remainder
//   - [fixed]: produces per-fragment copies of fixed content
//   - [stretch]: sizes absolutely positioned nodes anchored at top and bottom
//
// # Quick Start
//
//	doc, _ := io.ImportJSON("report.json")
//	resolver := boxes.New(boxes.A4, text.DefaultMetrics())
//	resolved, _ := resolver.Resolve(ctx, doc, node.Box{})
//	result, _ := paginate.New(resolver, text.Fitter{}, paginate.Options{}).Paginate(ctx, resolved)
//	fmt.Println(result.Pages())
//
// # Main Packages
//
// [node] - The document tree: node types, boxes, styles, props and the
// render callable of dynamic fixed content.
//
// [text] - Line breaking (rivo/uniseg) and line fitting with orphan and
// widow control.
//
// [template] - Compiles text/template strings into render callables.
//
// [pipeline] - Load, resolve and paginate with caching. Used by the CLI and
// the HTTP API so both behave the same.
//
// [cache] - File, Redis and null caches for pagination results.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Hooks for pipeline, pagination, cache and HTTP events.
//
// # Testing
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/paginate/...     # Specific package
package pkg
