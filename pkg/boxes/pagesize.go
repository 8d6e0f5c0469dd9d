package boxes

import (
	"strings"

	"github.com/matzehuels/pageflow/pkg/node"
)

// Size is a page size in points.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// A4 is the default page size.
var A4 = Size{Width: 595.28, Height: 841.89}

// PageSizes lists the named page sizes accepted by the "size" prop.
var PageSizes = map[string]Size{
	"A3":      {Width: 841.89, Height: 1190.55},
	"A4":      A4,
	"A5":      {Width: 419.53, Height: 595.28},
	"LETTER":  {Width: 612, Height: 792},
	"LEGAL":   {Width: 612, Height: 1008},
	"TABLOID": {Width: 792, Height: 1224},
}

// LookupSize returns the named page size, case-insensitively.
func LookupSize(name string) (Size, bool) {
	s, ok := PageSizes[strings.ToUpper(strings.TrimSpace(name))]
	return s, ok
}

// Landscape returns s with its longer side horizontal.
func (s Size) Landscape() Size {
	if s.Width < s.Height {
		return Size{Width: s.Height, Height: s.Width}
	}
	return s
}

// PageSize returns the size of a template page. Absolute style dimensions
// win; the "size" prop and then def fill the rest.
func PageSize(page *node.Node, def Size) Size {
	base := def
	if s, ok := LookupSize(page.Props.Size); ok {
		base = s
	}
	if strings.EqualFold(page.Props.Orientation, "landscape") {
		base = base.Landscape()
	}
	if w := page.Style.Width; w != nil && !w.Percent {
		base.Width = w.Value
	}
	if h := page.Style.Height; h != nil && !h.Percent {
		base.Height = h.Value
	}
	return base
}
