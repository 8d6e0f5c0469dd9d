package node

import (
	"strings"
)

// Type tags the kind of a node.
type Type string

// Node types understood by the pagination engine. Any other type is treated
// as generic content: a container when it has children, a leaf otherwise.
const (
	TypeDocument     Type = "DOCUMENT"
	TypePage         Type = "PAGE"
	TypeView         Type = "VIEW"
	TypeText         Type = "TEXT"
	TypeTextInstance Type = "TEXT_INSTANCE"
	TypeImage        Type = "IMAGE"
)

// Box is a resolved rectangle. Top and Left are relative to the parent box.
type Box struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns Top + Height.
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Line is one laid-out line of a TEXT node.
type Line struct {
	Text   string  `json:"text"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is a document tree node.
type Node struct {
	Type     Type    `json:"type"`
	Box      Box     `json:"box"`
	Style    Style   `json:"style"`
	Props    Props   `json:"props"`
	Value    string  `json:"value,omitempty"`
	Lines    []Line  `json:"lines,omitempty"`
	Children []*Node `json:"children,omitempty"`

	// Set on generated PAGE fragments only.
	PageNumber    int `json:"pageNumber,omitempty"`
	SubPageNumber int `json:"subPageNumber,omitempty"`
}

// New returns a node of type t with the given children.
func New(t Type, children ...*Node) *Node {
	return &Node{Type: t, Children: children}
}

// NewText returns a TEXT node holding a single TEXT_INSTANCE run.
func NewText(value string) *Node {
	return &Node{
		Type:     TypeText,
		Children: []*Node{{Type: TypeTextInstance, Value: value}},
	}
}

// Clone returns a deep copy of n. Clone of nil is nil.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := n.Shell()
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Shell returns a deep copy of n without its children.
func (n *Node) Shell() *Node {
	c := *n
	c.Style = n.Style.clone()
	c.Props = n.Props.clone()
	c.Children = nil
	if n.Lines != nil {
		c.Lines = append([]Line(nil), n.Lines...)
	}
	return &c
}

// InFlow reports whether n takes part in top-to-bottom flow accounting.
// Fixed and absolutely positioned nodes do not.
func (n *Node) InFlow() bool {
	return !n.Props.Fixed && !n.Style.IsAbsolute()
}

// IsText reports whether n is a TEXT node.
func (n *Node) IsText() bool { return n.Type == TypeText }

// HasFlowChildren reports whether any child of n is in flow.
func (n *Node) HasFlowChildren() bool {
	for _, c := range n.Children {
		if c.InFlow() {
			return true
		}
	}
	return false
}

// Content returns the concatenated text of n: the joined lines of a laid-out
// TEXT node, or the TEXT_INSTANCE values below n otherwise.
func (n *Node) Content() string {
	if len(n.Lines) > 0 {
		parts := make([]string, len(n.Lines))
		for i, l := range n.Lines {
			parts[i] = l.Text
		}
		return strings.Join(parts, " ")
	}
	var sb strings.Builder
	Walk(n, func(c, _ *Node) bool {
		if c.Type == TypeTextInstance {
			sb.WriteString(c.Value)
		}
		return true
	})
	return sb.String()
}

// FlowHeight returns the summed box heights of the in-flow nodes.
func FlowHeight(nodes []*Node) float64 {
	var h float64
	for _, n := range nodes {
		if n.InFlow() {
			h += n.Box.Height
		}
	}
	return h
}

// Walk visits n and its descendants depth-first, passing each node's parent
// (nil for n). Returning false from fn skips the node's children.
func Walk(n *Node, fn func(n, parent *Node) bool) {
	walk(n, nil, fn)
}

func walk(n, parent *Node, fn func(n, parent *Node) bool) {
	if n == nil || !fn(n, parent) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node, *Node) bool {
		count++
		return true
	})
	return count
}
