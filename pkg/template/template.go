// Package template turns declarative render strings into render functions.
//
// A render string is a Go text/template executed against the pagination
// context, so a page footer can be written as
//
//	"Page {{.PageNumber}} of {{.TotalPages}}"
//
// The executed text becomes a single TEXT node.
package template

import (
	"context"
	"strings"
	gotemplate "text/template"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/node"
)

var funcs = gotemplate.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"add":   func(a, b int) int { return a + b },
}

// Compile parses src and returns a render function that executes it.
func Compile(src string) (node.RenderFunc, error) {
	t, err := gotemplate.New("render").Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "parse render template")
	}
	return func(ctx context.Context, rc node.RenderContext) (*node.Node, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var sb strings.Builder
		if err := t.Execute(&sb, rc); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeCollaborator, err, "execute render template")
		}
		return node.NewText(sb.String()), nil
	}, nil
}

// Bind compiles the render template of every node below doc that has one
// and no render function yet.
func Bind(doc *node.Node) error {
	var err error
	node.Walk(doc, func(n, _ *node.Node) bool {
		if err != nil {
			return false
		}
		if n.Props.Template == "" || n.Props.Render != nil {
			return true
		}
		n.Props.Render, err = Compile(n.Props.Template)
		return err == nil
	})
	return err
}
