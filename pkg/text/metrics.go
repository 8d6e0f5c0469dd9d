package text

import "github.com/matzehuels/pageflow/pkg/node"

// Default metric values.
const (
	DefaultFontSize   = 16.0
	DefaultLineHeight = 1.25
	DefaultAdvance    = 0.5
)

// Metrics describes the text measurement model.
type Metrics struct {
	FontSize   float64 `json:"font_size" toml:"font_size"`
	LineHeight float64 `json:"line_height" toml:"line_height"` // multiple of FontSize
	Advance    float64 `json:"advance" toml:"advance"`         // cell width as a multiple of FontSize
}

// DefaultMetrics returns the default text metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		FontSize:   DefaultFontSize,
		LineHeight: DefaultLineHeight,
		Advance:    DefaultAdvance,
	}
}

// WithDefaults fills zero fields from DefaultMetrics.
func (m Metrics) WithDefaults() Metrics {
	d := DefaultMetrics()
	if m.FontSize <= 0 {
		m.FontSize = d.FontSize
	}
	if m.LineHeight <= 0 {
		m.LineHeight = d.LineHeight
	}
	if m.Advance <= 0 {
		m.Advance = d.Advance
	}
	return m
}

// For returns m with the font size and line height overridden by style.
func (m Metrics) For(style node.Style) Metrics {
	if style.FontSize > 0 {
		m.FontSize = style.FontSize
	}
	if style.LineHeight > 0 {
		m.LineHeight = style.LineHeight
	}
	return m
}

// Pitch returns the height of one line.
func (m Metrics) Pitch() float64 { return m.FontSize * m.LineHeight }

// Cell returns the advance of one cell.
func (m Metrics) Cell() float64 { return m.FontSize * m.Advance }
