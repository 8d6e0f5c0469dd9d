// Package pipeline runs the pageflow document pipeline.
//
// The same pipeline backs the CLI and the API server:
//
//  1. Load: decode a JSON document or convert Markdown into one
//  2. Resolve: compute every node's box for the configured page size
//  3. Paginate: slice template pages into page fragments
//
// Paginated results are cached by a hash of the loaded document and the
// layout options, so repeated runs over the same input are free.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Format: pipeline.FormatMarkdown,
//	    Source: src,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Pages())
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageflow/pkg/boxes"
	"github.com/matzehuels/pageflow/pkg/cache"
	perrors "github.com/matzehuels/pageflow/pkg/errors"
	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/paginate"
	"github.com/matzehuels/pageflow/pkg/source/markdown"
	"github.com/matzehuels/pageflow/pkg/text"
)

// Input formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// DefaultTTL is how long paginated results stay cached.
const DefaultTTL = 24 * time.Hour

// Options configures one pipeline run. It decodes from API requests.
type Options struct {
	// Source
	Format   string           `json:"format"`
	Source   []byte           `json:"-"`
	Markdown markdown.Options `json:"markdown"`

	// Layout
	PageSize     boxes.Size   `json:"page_size"`
	Metrics      text.Metrics `json:"metrics"`
	MaxFragments int          `json:"max_fragments,omitempty"`

	// Caching
	Refresh  bool          `json:"refresh,omitempty"`
	CacheTTL time.Duration `json:"-"`

	// Logger receives pagination debug output. Nil uses the runner's logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if err := perrors.ValidateFormat(o.Format); err != nil {
		return err
	}
	if len(o.Source) == 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "source is empty")
	}
	if o.PageSize == (boxes.Size{}) {
		o.PageSize = boxes.A4
	}
	if err := perrors.ValidatePageSize(o.PageSize.Width, o.PageSize.Height); err != nil {
		return err
	}
	o.Metrics = o.Metrics.WithDefaults()
	if o.MaxFragments <= 0 {
		o.MaxFragments = paginate.DefaultMaxFragments
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultTTL
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns the cache key options of the layout settings.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		PageWidth:    o.PageSize.Width,
		PageHeight:   o.PageSize.Height,
		FontSize:     o.Metrics.FontSize,
		LineHeight:   o.Metrics.LineHeight,
		Advance:      o.Metrics.Advance,
		MaxFragments: o.MaxFragments,
	}
}

// Result is the output of a pipeline run.
type Result struct {
	// ID identifies the run.
	ID string `json:"id"`

	// DocumentHash is the content hash of the loaded document.
	DocumentHash string `json:"document_hash"`

	// Document is the paginated document.
	Document *node.Node `json:"document"`

	// Warnings lists recoverable approximations made during pagination.
	Warnings []paginate.Warning `json:"warnings,omitempty"`

	Stats     Stats     `json:"stats"`
	CacheInfo CacheInfo `json:"cache"`
}

// Pages returns the number of generated page fragments.
func (r *Result) Pages() int {
	if r.Document == nil {
		return 0
	}
	return len(r.Document.Children)
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Templates    int           `json:"templates"`
	Pages        int           `json:"pages"`
	Nodes        int           `json:"nodes"`
	LoadTime     time.Duration `json:"load_ns"`
	PaginateTime time.Duration `json:"paginate_ns"`
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	SourceHit bool `json:"source_hit"`
	LayoutHit bool `json:"layout_hit"`
}
