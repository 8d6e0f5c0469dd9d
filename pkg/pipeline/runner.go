package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pageflow/pkg/boxes"
	"github.com/matzehuels/pageflow/pkg/cache"
	pio "github.com/matzehuels/pageflow/pkg/io"
	"github.com/matzehuels/pageflow/pkg/node"
	"github.com/matzehuels/pageflow/pkg/observability"
	"github.com/matzehuels/pageflow/pkg/paginate"
	"github.com/matzehuels/pageflow/pkg/source/markdown"
	"github.com/matzehuels/pageflow/pkg/text"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load and paginate.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{ID: uuid.NewString()}

	loadStart := time.Now()
	doc, sourceHit, err := r.load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.CacheInfo.SourceHit = sourceHit
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Templates = len(doc.Children)
	result.Stats.Nodes = node.Count(doc)

	opts.Logger.Info("loaded document",
		"format", opts.Format,
		"templates", result.Stats.Templates,
		"nodes", result.Stats.Nodes)

	paginateStart := time.Now()
	res, hash, hit, err := r.PaginateWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}
	result.DocumentHash = hash
	result.Document = res.Document
	result.Warnings = res.Warnings
	result.Stats.PaginateTime = time.Since(paginateStart)
	result.Stats.Pages = res.Pages()
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Info("paginated document",
		"pages", result.Stats.Pages,
		"warnings", len(result.Warnings),
		"cached", hit,
		"duration", result.Stats.PaginateTime)

	return result, nil
}

// Load decodes the source document.
func (r *Runner) Load(ctx context.Context, opts Options) (*node.Node, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	doc, _, err := r.load(ctx, opts)
	return doc, err
}

func (r *Runner) load(ctx context.Context, opts Options) (doc *node.Node, hit bool, err error) {
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, "load", 0)
	defer func() { observability.Pipeline().OnStageComplete(ctx, "load", time.Since(start), err) }()

	if opts.Format != FormatMarkdown {
		doc, err = pio.ReadJSON(bytes.NewReader(opts.Source))
		return doc, false, err
	}
	return r.loadMarkdown(ctx, opts)
}

// loadMarkdown converts Markdown sources, caching the converted document
// under the source key. It reports whether the document came from the cache.
func (r *Runner) loadMarkdown(ctx context.Context, opts Options) (*node.Node, bool, error) {
	mdOpts, err := json.Marshal(opts.Markdown)
	if err != nil {
		return nil, false, fmt.Errorf("serialize markdown options: %w", err)
	}
	key := r.Keyer.SourceKey(opts.Format, cache.Hash(append(mdOpts, opts.Source...)))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := pio.ReadJSON(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "source")
				return doc, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	doc, err := markdown.Parse(opts.Source, opts.Markdown)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "source", len(data))
		}
	}
	return doc, false, nil
}

// PaginateWithCacheInfo resolves boxes and paginates doc, consulting the
// cache first unless opts.Refresh is set. It returns the result, the
// document hash and whether the result came from the cache.
func (r *Runner) PaginateWithCacheInfo(ctx context.Context, doc *node.Node, opts Options) (*paginate.Result, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	hash := cache.Hash(docData)
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := decodeLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, hash, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	res, err := r.paginate(ctx, doc, opts)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := encodeLayout(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, opts.CacheTTL); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, hash, false, nil
}

func (r *Runner) paginate(ctx context.Context, doc *node.Node, opts Options) (res *paginate.Result, err error) {
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, "paginate", node.Count(doc))
	defer func() { observability.Pipeline().OnStageComplete(ctx, "paginate", time.Since(start), err) }()

	resolver := boxes.New(opts.PageSize, opts.Metrics)
	resolved, err := resolver.Resolve(ctx, doc, node.Box{})
	if err != nil {
		return nil, err
	}
	p := paginate.New(resolver, text.Fitter{}, paginate.Options{
		PageSize:     opts.PageSize,
		MaxFragments: opts.MaxFragments,
		Logger:       opts.Logger,
	})
	return p.Paginate(ctx, resolved)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
