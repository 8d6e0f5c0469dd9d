package paginate

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageflow/pkg/boxes"
	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/fixed"
	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/observability"
	"github.com/matzehuels/pageflow/pkg/split"
	"github.com/matzehuels/pageflow/pkg/stretch"
	"github.com/matzehuels/pageflow/pkg/text"
)

// DefaultMaxFragments bounds the number of fragments of one document.
const DefaultMaxFragments = 10000

const epsilon = 1e-6

// Options configures a Paginator.
type Options struct {
	// PageSize is the size of template pages whose box has no height.
	// Zero means A4.
	PageSize boxes.Size

	// MaxFragments aborts pagination with LAYOUT_DEADLOCK once exceeded.
	// Zero means DefaultMaxFragments.
	MaxFragments int

	Logger *log.Logger
}

// Warning is a recoverable approximation made during pagination.
type Warning struct {
	Code       perrors.Code `json:"code"`
	PageNumber int          `json:"pageNumber"`
	Message    string       `json:"message"`
}

// Result is a paginated document.
type Result struct {
	Document *node.Node `json:"document"`
	Warnings []Warning  `json:"warnings,omitempty"`
}

// Pages returns the number of generated fragments.
func (r *Result) Pages() int { return len(r.Document.Children) }

// Paginator slices documents into page fragments.
type Paginator struct {
	splitter *split.Splitter
	repeater *fixed.Repeater
	opts     Options
}

// New returns a paginator. A nil resolver measures rendered fixed content
// with a boxes.Resolver for opts.PageSize; a nil fitter uses text.Fitter.
func New(resolver fixed.BoxResolver, fitter split.LineFitter, opts Options) *Paginator {
	if opts.PageSize.Width <= 0 || opts.PageSize.Height <= 0 {
		opts.PageSize = boxes.A4
	}
	if opts.MaxFragments <= 0 {
		opts.MaxFragments = DefaultMaxFragments
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if resolver == nil {
		resolver = boxes.New(opts.PageSize, text.DefaultMetrics())
	}
	return &Paginator{
		splitter: split.New(fitter),
		repeater: fixed.New(resolver),
		opts:     opts,
	}
}

// Paginate paginates doc with default collaborators and returns the
// document of fragments.
func Paginate(ctx context.Context, doc *node.Node) (*node.Node, error) {
	res, err := New(nil, nil, Options{}).Paginate(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// source is a template page prepared for slicing.
type source struct {
	page   *node.Node
	box    node.Box
	layout fixed.Layout
}

// slice is one fragment before assembly.
type slice struct {
	src   int
	sub   int
	whole bool

	// content is the flow input the slice was cut from, flow the part of
	// it placed on the fragment.
	content []*node.Node
	flow    []*node.Node

	leading     []*node.Node
	trailing    []*node.Node
	fixedHeight float64
}

// Paginate slices every template page of doc. doc is not modified.
func (p *Paginator) Paginate(ctx context.Context, doc *node.Node) (*Result, error) {
	if err := node.Validate(doc); err != nil {
		return nil, err
	}
	doc = doc.Clone()

	srcs := make([]source, len(doc.Children))
	dynamic := false
	for i, page := range doc.Children {
		srcs[i] = p.source(page)
		dynamic = dynamic || srcs[i].layout.Dynamic()
	}

	slices, err := p.firstPass(ctx, srcs)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if dynamic {
		if slices, err = p.fixup(ctx, srcs, slices, res); err != nil {
			return nil, err
		}
	}

	out := doc.Shell()
	out.Children = make([]*node.Node, 0, len(slices))
	for i, s := range slices {
		frag, err := p.assemble(ctx, srcs[s.src], s, i+1, len(slices))
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, frag)
	}
	res.Document = out

	p.opts.Logger.Debug("paginated document",
		"templates", len(srcs),
		"pages", len(slices),
		"warnings", len(res.Warnings))
	return res, nil
}

func (p *Paginator) source(page *node.Node) source {
	box := page.Box
	if box.Height <= 0 {
		size := boxes.PageSize(page, p.opts.PageSize)
		box.Width, box.Height = size.Width, size.Height
	}
	return source{page: page, box: box, layout: fixed.Partition(page)}
}

// firstPass slices every template page with the provisional page total of
// the pages emitted so far.
func (p *Paginator) firstPass(ctx context.Context, srcs []source) ([]slice, error) {
	var all []slice
	for i, src := range srcs {
		if !src.page.Props.CanWrap() {
			if len(all)+1 > p.opts.MaxFragments {
				return nil, p.tooMany()
			}
			all = append(all, slice{src: i, sub: 1, whole: true})
			continue
		}
		ss, err := p.sequence(ctx, srcs, i, src.layout.Flow, len(all)+1, 1, provisional)
		if err != nil {
			return nil, err
		}
		all = append(all, ss...)
	}
	return all, nil
}

func provisional(number int) int { return number }

// sequence slices content on fresh fragments of template page i until it
// is exhausted. first and sub number the first fragment.
func (p *Paginator) sequence(ctx context.Context, srcs []source, i int, content []*node.Node, first, sub int, total func(int) int) ([]slice, error) {
	var out []slice
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		number := first + len(out)
		if number > p.opts.MaxFragments {
			return nil, p.tooMany()
		}
		rc := node.RenderContext{
			PageNumber:    number,
			SubPageNumber: sub + len(out),
			TotalPages:    total(number),
		}
		s, rest, err := p.cut(ctx, srcs[i], content, rc)
		if err != nil {
			return nil, err
		}
		s.src = i
		out = append(out, s)
		if len(rest) == 0 {
			return out, nil
		}
		content = rest
	}
}

// cut places as much of content as fits on one fresh fragment.
func (p *Paginator) cut(ctx context.Context, src source, content []*node.Node, rc node.RenderContext) (slice, []*node.Node, error) {
	leading, trailing, err := p.renderFixed(ctx, src, rc)
	if err != nil {
		return slice{}, nil, err
	}
	fixedHeight := fixed.Height(leading) + fixed.Height(trailing)
	available := src.box.Height - fixedHeight

	pending := node.FlowHeight(content) > epsilon
	if pending && available <= epsilon {
		return slice{}, nil, perrors.New(perrors.ErrCodeLayoutDeadlock,
			"page %d: fixed content (%v) leaves no room on a page of height %v", rc.PageNumber, fixedHeight, src.box.Height)
	}

	fit, rest, err := p.splitter.SplitChildren(ctx, content, available, true)
	if err != nil {
		return slice{}, nil, err
	}
	if pending && node.FlowHeight(fit) <= epsilon {
		return slice{}, nil, perrors.New(perrors.ErrCodeLayoutDeadlock,
			"page %d: no content placed on a fresh page", rc.PageNumber)
	}

	return slice{
		sub:         rc.SubPageNumber,
		content:     content,
		flow:        fit,
		leading:     leading,
		trailing:    trailing,
		fixedHeight: fixedHeight,
	}, rest, nil
}

func (p *Paginator) renderFixed(ctx context.Context, src source, rc node.RenderContext) ([]*node.Node, []*node.Node, error) {
	leading, err := p.repeater.Render(ctx, src.layout.Leading, src.box, rc)
	if err != nil {
		return nil, nil, err
	}
	trailing, err := p.repeater.Render(ctx, src.layout.Trailing, src.box, rc)
	if err != nil {
		return nil, nil, err
	}
	return leading, trailing, nil
}

// fixup runs the second pass with the final page total.
func (p *Paginator) fixup(ctx context.Context, srcs []source, slices []slice, res *Result) ([]slice, error) {
	total := len(slices)
	final := func(int) int { return total }

	out := make([]slice, 0, len(slices))
	for i := 0; i < len(slices); i++ {
		s := slices[i]
		number := len(out) + 1
		if s.whole {
			out = append(out, s)
			continue
		}

		rc := node.RenderContext{PageNumber: number, SubPageNumber: s.sub, TotalPages: total}
		leading, trailing, err := p.renderFixed(ctx, srcs[s.src], rc)
		if err != nil {
			return nil, err
		}
		if same(fixed.Height(leading)+fixed.Height(trailing), s.fixedHeight) {
			s.leading, s.trailing = leading, trailing
			out = append(out, s)
			continue
		}

		p.opts.Logger.Debug("re-slicing fragment", "page", number, "sub", s.sub)
		observability.Pagination().OnReslice(ctx, number)
		ss, err := p.sequence(ctx, srcs, s.src, s.content, number, s.sub, final)
		if err != nil {
			return nil, err
		}
		out = append(out, ss...)
		for i+1 < len(slices) && slices[i+1].src == s.src {
			i++
		}
	}
	if len(out) == total {
		return out, nil
	}

	// The page count moved: render once more without slicing again.
	total = len(out)
	for i := range out {
		s := &out[i]
		if s.whole {
			continue
		}
		number := i + 1
		rc := node.RenderContext{PageNumber: number, SubPageNumber: s.sub, TotalPages: total}
		leading, trailing, err := p.renderFixed(ctx, srcs[s.src], rc)
		if err != nil {
			return nil, err
		}
		if measured := fixed.Height(leading) + fixed.Height(trailing); !same(measured, s.fixedHeight) {
			w := Warning{
				Code:       perrors.ErrCodeDivergence,
				PageNumber: number,
				Message:    fmt.Sprintf("fixed content measures %v but the fragment was sliced for %v", measured, s.fixedHeight),
			}
			res.Warnings = append(res.Warnings, w)
			p.opts.Logger.Warn("dynamic content diverged", "page", number, "assumed", s.fixedHeight, "measured", measured)
			observability.Pagination().OnDivergence(ctx, number, s.fixedHeight, measured)
		}
		s.leading, s.trailing = leading, trailing
	}
	return out, nil
}

// assemble builds the PAGE fragment of s.
func (p *Paginator) assemble(ctx context.Context, src source, s slice, number, total int) (*node.Node, error) {
	if s.whole {
		return p.assembleWhole(ctx, src, number, total)
	}

	frag := src.page.Shell()
	frag.Box = src.box
	frag.Props.Break = false
	frag.PageNumber = number
	frag.SubPageNumber = s.sub

	frag.Children = make([]*node.Node, 0, len(s.leading)+len(s.flow)+len(s.trailing))
	frag.Children = append(frag.Children, s.leading...)
	for _, c := range s.flow {
		frag.Children = append(frag.Children, c.Clone())
	}
	frag.Children = append(frag.Children, s.trailing...)

	restack(frag)
	stretch.Resolve(frag)

	flowHeight := node.FlowHeight(s.flow)
	p.opts.Logger.Debug("fragment", "page", number, "sub", s.sub, "flow", flowHeight, "fixed", s.fixedHeight)
	observability.Pagination().OnFragment(ctx, number, s.sub, flowHeight)
	return frag, nil
}

// assembleWhole emits a wrap:false page unchanged, apart from rendering its
// dynamic fixed children in place.
func (p *Paginator) assembleWhole(ctx context.Context, src source, number, total int) (*node.Node, error) {
	frag := src.page.Clone()
	frag.PageNumber = number
	frag.SubPageNumber = 1

	rc := node.RenderContext{PageNumber: number, SubPageNumber: 1, TotalPages: total}
	for i, c := range frag.Children {
		if !c.Props.Fixed || !c.Props.Dynamic() {
			continue
		}
		rendered, err := p.repeater.Render(ctx, []*node.Node{c}, src.box, rc)
		if err != nil {
			return nil, err
		}
		if !c.Style.IsAbsolute() {
			rendered[0].Box.Top = c.Box.Top
		}
		frag.Children[i] = rendered[0]
	}

	observability.Pagination().OnFragment(ctx, number, 1, node.FlowHeight(frag.Children))
	return frag, nil
}

// restack positions the non-absolute children of every container below n
// top to bottom from zero.
func restack(n *node.Node) {
	var y float64
	for _, c := range n.Children {
		if c.Type == node.TypeTextInstance {
			continue
		}
		if !c.Style.IsAbsolute() {
			c.Box.Top = y
			y += c.Box.Height
		}
		restack(c)
	}
}

func (p *Paginator) tooMany() error {
	return perrors.New(perrors.ErrCodeLayoutDeadlock, "document exceeds %d fragments", p.opts.MaxFragments)
}

func same(a, b float64) bool { return math.Abs(a-b) <= epsilon }
