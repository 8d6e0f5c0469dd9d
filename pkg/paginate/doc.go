// Package paginate turns a document of template pages into a document of
// page fragments.
//
// # Overview
//
// Each template PAGE is sliced into as many fragments as its content needs:
//
//	doc, err := boxes.New(boxes.A4, text.DefaultMetrics()).Resolve(ctx, doc, node.Box{})
//	res, err := paginate.New(nil, nil, paginate.Options{}).Paginate(ctx, doc)
//	for _, page := range res.Document.Children {
//	    fmt.Println(page.PageNumber, page.SubPageNumber)
//	}
//
// The input must already carry resolved boxes. A page with wrap:false is
// emitted as a single fragment, overflow included. Other pages are cut with
// the flow splitter; fixed children are repeated on every fragment and
// take their height out of the flowed space.
//
// # Page Numbers
//
// PageNumber counts fragments across the whole document, SubPageNumber
// counts them within a template page. Both start at 1.
//
// # Dynamic Fixed Content
//
// Fixed nodes with a render function see the total page count, which is
// only known once slicing is done. The first pass renders them with the
// number of pages emitted so far. The second pass renders them with the
// final count; when that changes the height of a fragment's fixed content,
// the rest of its template page is sliced again. If that changes the page
// count, fixed content is rendered one last time without slicing, and every
// fragment whose fixed height still moved is reported as a
// DYNAMIC_CONTENT_DIVERGENCE [Warning]. Full convergence is not attempted.
package paginate
