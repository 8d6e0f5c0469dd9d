package node

import "context"

// RenderContext is passed to dynamic fixed content.
type RenderContext struct {
	PageNumber    int `json:"pageNumber"`
	SubPageNumber int `json:"subPageNumber"`
	TotalPages    int `json:"totalPages"`
}

// RenderFunc produces a fresh content subtree for a fixed node. The returned
// subtree becomes the node's only child. It may block; implementations
// should honor ctx.
type RenderFunc func(ctx context.Context, rc RenderContext) (*Node, error)

// Props holds the non-style attributes of a node.
type Props struct {
	// Wrap reports whether the node may be split across pages. Nil means true.
	Wrap *bool `json:"wrap,omitempty"`

	// Fixed nodes repeat on every fragment of their template page.
	Fixed bool `json:"fixed,omitempty"`

	// Break forces the node to start a new fragment.
	Break bool `json:"break,omitempty"`

	// Orphans and Widows are minimum line counts kept together at the
	// bottom and top of a split TEXT node. Zero or one disables them.
	Orphans int `json:"orphans,omitempty"`
	Widows  int `json:"widows,omitempty"`

	// Size ("A4", "LETTER", ...) and Orientation ("portrait", "landscape")
	// choose a page size when the page style has no explicit dimensions.
	Size        string `json:"size,omitempty"`
	Orientation string `json:"orientation,omitempty"`

	// Template is the serializable form of Render: a text/template string.
	Template string `json:"render,omitempty"`

	// Render produces dynamic content for fixed nodes.
	Render RenderFunc `json:"-"`
}

// CanWrap reports whether the node may be split.
func (p Props) CanWrap() bool { return p.Wrap == nil || *p.Wrap }

// Dynamic reports whether the node has a render callable.
func (p Props) Dynamic() bool { return p.Render != nil }

// Bool returns a pointer to v, for the Wrap prop.
func Bool(v bool) *bool { return &v }

func (p Props) clone() Props {
	c := p
	if p.Wrap != nil {
		c.Wrap = Bool(*p.Wrap)
	}
	return c
}
