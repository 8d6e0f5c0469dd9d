package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/template"
)

// ReadJSON decodes a document from r. The result has its render templates
// compiled and has passed node.Validate. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*node.Node, error) {
	var doc node.Node
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "decode document")
	}

	root := &doc
	if root.Type == node.TypePage {
		root = node.New(node.TypeDocument, root)
	}
	if err := template.Bind(root); err != nil {
		return nil, err
	}
	if err := node.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// ImportJSON reads the document file at path.
func ImportJSON(path string) (*node.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
