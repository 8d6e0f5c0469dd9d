// Package svg draws paginated documents as an SVG contact sheet.
//
// Pages are stacked vertically with a gap between them. Every node box is
// outlined and laid-out TEXT lines are drawn at their resolved positions, so
// the output shows where pagination placed each piece of content. It is a
// preview, not a typesetter: glyphs come from a generic font and are not
// measured.
//
//	data := svg.Render(doc, svg.WithGap(24), svg.WithOutlines())
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/pageflow/pkg/node"
)

const (
	defaultGap = 16.0
	fontFamily = "Helvetica, Arial, sans-serif"

	// baseline is the fraction of the line height above the text baseline.
	baseline = 0.8
)

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	gap      float64
	outlines bool
	labels   bool
}

// WithGap sets the vertical space between pages in points.
func WithGap(gap float64) Option { return func(r *renderer) { r.gap = gap } }

// WithOutlines draws the box of every non-page node.
func WithOutlines() Option { return func(r *renderer) { r.outlines = true } }

// WithPageLabels prints "pageNumber.subPageNumber" beside every page.
func WithPageLabels() Option { return func(r *renderer) { r.labels = true } }

// Render draws the PAGE children of doc. Nodes without a PAGE ancestor are
// ignored.
func Render(doc *node.Node, opts ...Option) []byte {
	r := renderer{gap: defaultGap}
	for _, opt := range opts {
		opt(&r)
	}

	var pages []*node.Node
	if doc != nil {
		for _, c := range doc.Children {
			if c.Type == node.TypePage {
				pages = append(pages, c)
			}
		}
	}

	width, height := 0.0, 0.0
	for i, p := range pages {
		width = max(width, p.Box.Width)
		height += p.Box.Height
		if i > 0 {
			height += r.gap
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	y := 0.0
	for _, p := range pages {
		r.page(&buf, p, y)
		y += p.Box.Height + r.gap
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) page(buf *bytes.Buffer, p *node.Node, y float64) {
	fmt.Fprintf(buf, `  <g class="page" data-page="%d" data-sub-page="%d">`+"\n", p.PageNumber, p.SubPageNumber)
	fmt.Fprintf(buf, `    <rect x="0" y="%.2f" width="%.2f" height="%.2f" fill="white" stroke="#888" stroke-width="1"/>`+"\n",
		y, p.Box.Width, p.Box.Height)
	if r.labels {
		fmt.Fprintf(buf, `    <text x="4" y="%.2f" font-family="%s" font-size="8" fill="#888">%d.%d</text>`+"\n",
			y+10, fontFamily, p.PageNumber, p.SubPageNumber)
	}
	for _, c := range p.Children {
		r.node(buf, c, 0, y)
	}
	buf.WriteString("  </g>\n")
}

// node draws n whose parent box origin is (x, y).
func (r *renderer) node(buf *bytes.Buffer, n *node.Node, x, y float64) {
	x += n.Box.Left
	y += n.Box.Top

	if r.outlines && n.Box.Width > 0 && n.Box.Height > 0 {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#4a9" stroke-width="0.5" data-type="%s"/>`+"\n",
			x, y, n.Box.Width, n.Box.Height, escape(string(n.Type)))
	}

	if n.IsText() {
		lineY := y
		for _, l := range n.Lines {
			fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" fill="#222">%s</text>`+"\n",
				x, lineY+l.Height*baseline, fontFamily, l.Height*baseline, escape(l.Text))
			lineY += l.Height
		}
		return
	}
	for _, c := range n.Children {
		r.node(buf, c, x, y)
	}
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
