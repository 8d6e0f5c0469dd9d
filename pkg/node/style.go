package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Position is the positioning scheme of a node.
type Position string

const (
	PositionRelative Position = "relative"
	PositionAbsolute Position = "absolute"
)

// Length is a style dimension: an absolute value in points or a percentage
// of the containing box. It decodes from a JSON number or a "NN%" string.
type Length struct {
	Value   float64
	Percent bool
}

// Pt returns an absolute length.
func Pt(v float64) *Length { return &Length{Value: v} }

// Pct returns a percentage length.
func Pct(v float64) *Length { return &Length{Value: v, Percent: true} }

// Resolve returns the length in points against base.
func (l Length) Resolve(base float64) float64 {
	if l.Percent {
		return base * l.Value / 100
	}
	return l.Value
}

// MarshalJSON encodes percentages as "NN%" and absolute values as numbers.
func (l Length) MarshalJSON() ([]byte, error) {
	if l.Percent {
		return json.Marshal(strconv.FormatFloat(l.Value, 'f', -1, 64) + "%")
	}
	return json.Marshal(l.Value)
}

// UnmarshalJSON accepts 12, "12", "12pt" and "50%".
func (l *Length) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		return json.Unmarshal(data, &l.Value)
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLength parses "12", "12pt" or "50%".
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "%"), "pt")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	return Length{Value: v, Percent: percent}, nil
}

// Style holds the style properties that pagination and box resolution read.
type Style struct {
	Position Position `json:"position,omitempty"`
	Width    *Length  `json:"width,omitempty"`
	Height   *Length  `json:"height,omitempty"`
	Top      *float64 `json:"top,omitempty"`
	Bottom   *float64 `json:"bottom,omitempty"`
	Left     *float64 `json:"left,omitempty"`
	Right    *float64 `json:"right,omitempty"`

	// Text metrics; zero means inherit.
	FontSize   float64 `json:"fontSize,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`
}

// IsAbsolute reports whether the node is absolutely positioned.
func (s Style) IsAbsolute() bool { return s.Position == PositionAbsolute }

// Stretched reports whether the node is absolute and anchored at both top
// and bottom, so its height follows its container.
func (s Style) Stretched() bool {
	return s.IsAbsolute() && s.Top != nil && s.Bottom != nil
}

func (s Style) clone() Style {
	c := s
	c.Width = cloneLength(s.Width)
	c.Height = cloneLength(s.Height)
	c.Top = cloneFloat(s.Top)
	c.Bottom = cloneFloat(s.Bottom)
	c.Left = cloneFloat(s.Left)
	c.Right = cloneFloat(s.Right)
	return c
}

// Float returns a pointer to v, for optional style anchors.
func Float(v float64) *float64 { return &v }

func cloneLength(l *Length) *Length {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
