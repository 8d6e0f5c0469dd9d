package node

import (
	"math"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
)

// Validate checks the structural rules pagination relies on:
//   - the root is a DOCUMENT whose children are all PAGE nodes
//   - TEXT_INSTANCE nodes appear only directly under TEXT nodes
//   - no PAGE is nested below another node
//   - explicit dimensions and box values are finite and not negative
func Validate(doc *Node) error {
	if doc == nil {
		return perrors.New(perrors.ErrCodeInvalidDocument, "document is nil")
	}
	if doc.Type != TypeDocument {
		return perrors.New(perrors.ErrCodeInvalidDocument, "root must be %s, got %q", TypeDocument, doc.Type)
	}
	for i, page := range doc.Children {
		if page == nil || page.Type != TypePage {
			return perrors.New(perrors.ErrCodeInvalidDocument, "document child %d is not a %s", i, TypePage)
		}
	}

	var err error
	Walk(doc, func(n, parent *Node) bool {
		if err != nil {
			return false
		}
		err = validateNode(n, parent)
		return err == nil
	})
	return err
}

func validateNode(n, parent *Node) error {
	switch {
	case n.Type == TypeTextInstance && (parent == nil || parent.Type != TypeText):
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s must be a child of %s", TypeTextInstance, TypeText)
	case n.Type == TypePage && (parent == nil || parent.Type != TypeDocument):
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s must be a child of %s", TypePage, TypeDocument)
	case n.Type == TypeDocument && parent != nil:
		return perrors.New(perrors.ErrCodeInvalidDocument, "nested %s", TypeDocument)
	}
	for _, l := range []*Length{n.Style.Width, n.Style.Height} {
		if l != nil && !validDimension(l.Value) {
			return perrors.New(perrors.ErrCodeInvalidDocument, "%s has invalid dimension %v", n.Type, l.Value)
		}
	}
	if !validDimension(n.Box.Height) || !validDimension(n.Box.Width) {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s has invalid box %+v", n.Type, n.Box)
	}
	return nil
}

func validDimension(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
