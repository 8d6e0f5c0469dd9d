// Package markdown builds paginatable documents from Markdown.
//
// Every top-level block becomes one flow child of a single template page:
// headings and paragraphs become TEXT nodes, lists and block quotes become
// VIEW containers of TEXT nodes, and code blocks become TEXT nodes with
// wrap:false so they are never split across pages. A thematic break
// ("---") starts a new page.
package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/template"
)

// headingSizes are the font sizes of heading levels 1 to 3. Deeper levels
// use the body size.
var headingSizes = map[int]float64{1: 28, 2: 22, 3: 18}

// Options configures the generated page.
type Options struct {
	// Size is the page size name ("A4", "LETTER", ...). Empty uses the
	// configured default.
	Size string `json:"size,omitempty"`

	// Orientation is "portrait" or "landscape".
	Orientation string `json:"orientation,omitempty"`

	// Footer is a render template repeated at the bottom of every page,
	// for example "{{.PageNumber}} / {{.TotalPages}}". Empty means none.
	Footer string `json:"footer,omitempty"`

	// Header is a static line repeated at the top of every page.
	Header string `json:"header,omitempty"`
}

// Read parses Markdown from r.
func Read(r io.Reader, opts Options) (*node.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	return Parse(src, opts)
}

// Parse converts Markdown source into a DOCUMENT with one template page.
func Parse(src []byte, opts Options) (*node.Node, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	page := node.New(node.TypePage)
	page.Props.Size = opts.Size
	page.Props.Orientation = opts.Orientation

	if opts.Header != "" {
		header := node.New(node.TypeView, node.NewText(opts.Header))
		header.Props.Fixed = true
		page.Children = append(page.Children, header)
	}

	pendingBreak := false
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*ast.ThematicBreak); ok {
			pendingBreak = true
			continue
		}
		block := convert(n, src)
		if block == nil {
			continue
		}
		block.Props.Break = pendingBreak
		pendingBreak = false
		page.Children = append(page.Children, block)
	}

	if opts.Footer != "" {
		footer := node.New(node.TypeView)
		footer.Props.Fixed = true
		footer.Props.Template = opts.Footer
		page.Children = append(page.Children, footer)
	}

	doc := node.New(node.TypeDocument, page)
	if err := template.Bind(doc); err != nil {
		return nil, err
	}
	if err := node.Validate(doc); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "markdown produced an invalid document")
	}
	return doc, nil
}

func convert(n ast.Node, src []byte) *node.Node {
	switch b := n.(type) {
	case *ast.Heading:
		t := node.NewText(inline(b, src))
		if size, ok := headingSizes[b.Level]; ok {
			t.Style.FontSize = size
		}
		return t
	case *ast.Paragraph, *ast.TextBlock:
		if s := inline(b, src); s != "" {
			return node.NewText(s)
		}
		return nil
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		t := node.NewText(strings.TrimRight(blockLines(b, src), "\n"))
		t.Props.Wrap = node.Bool(false)
		return t
	case *ast.List:
		list := node.New(node.TypeView)
		i := b.Start
		if i == 0 {
			i = 1
		}
		for item := b.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "•"
			if b.IsOrdered() {
				marker = fmt.Sprintf("%d.", i)
				i++
			}
			list.Children = append(list.Children, node.NewText(marker+" "+inline(item, src)))
		}
		return list
	case *ast.Blockquote:
		quote := node.New(node.TypeView)
		for c := b.FirstChild(); c != nil; c = c.NextSibling() {
			if child := convert(c, src); child != nil {
				quote.Children = append(quote.Children, child)
			}
		}
		return quote
	case *ast.HTMLBlock:
		return nil
	default:
		if s := inline(n, src); s != "" {
			return node.NewText(s)
		}
		return nil
	}
}

// inline returns the text of n's inline descendants with soft breaks
// collapsed to spaces.
func inline(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			switch {
			case t.HardLineBreak():
				buf.WriteByte('\n')
			case t.SoftLineBreak():
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.CodeSpan:
			for g := t.FirstChild(); g != nil; g = g.NextSibling() {
				if s, ok := g.(*ast.Text); ok {
					buf.Write(s.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}
