package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pageflow/pkg/errors"
	pio "github.com/matzehuels/pageflow/pkg/io"
	"github.com/matzehuels/pageflow/pkg/pipeline"
	"github.com/matzehuels/pageflow/pkg/render/svg"
)

// paginateOpts holds the command-line flags for the paginate command.
type paginateOpts struct {
	output       string  // output file path; empty writes to stdout
	size         string  // page size name, overrides the config
	landscape    bool    // rotate the page size
	width        float64 // explicit page width in points
	height       float64 // explicit page height in points
	header       string  // markdown: static header line
	footer       string  // markdown: footer template
	maxFragments int     // fragment limit, overrides the config
	full         bool    // write the result envelope instead of the document
	svg          string  // also write an SVG preview to this path
	noCache      bool    // disable the result cache
	refresh      bool    // recompute and overwrite cached results
}

// paginateCommand creates the paginate command.
func (c *CLI) paginateCommand() *cobra.Command {
	var opts paginateOpts

	cmd := &cobra.Command{
		Use:   "paginate [file]",
		Short: "Paginate a JSON or Markdown document",
		Long: `Paginate a document into page fragments.

The input format follows the file extension: .json files hold a document
tree, .md and .markdown files are converted first. The paginated document
is written as JSON.`,
		Example: `  pageflow paginate report.md -o report.pages.json
  pageflow paginate doc.json --size LETTER --landscape --svg doc.svg
  pageflow paginate notes.md --footer "{{.PageNumber}} / {{.TotalPages}}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPaginate(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&opts.size, "size", "", "page size: A3, A4, A5, LETTER, LEGAL, TABLOID")
	f.BoolVar(&opts.landscape, "landscape", false, "use landscape orientation")
	f.Float64Var(&opts.width, "width", 0, "page width in points")
	f.Float64Var(&opts.height, "height", 0, "page height in points")
	f.StringVar(&opts.header, "header", "", "header line repeated on every page (markdown)")
	f.StringVar(&opts.footer, "footer", "", "footer template repeated on every page (markdown)")
	f.IntVar(&opts.maxFragments, "max-fragments", 0, "abort after this many page fragments")
	f.BoolVar(&opts.full, "full", false, "write the full result with warnings and stats")
	f.StringVar(&opts.svg, "svg", "", "also write an SVG preview of the pages")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runPaginate(cmd *cobra.Command, path string, opts paginateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format, err := perrors.ValidateInputPath(path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	applyPageFlags(&cfg.Page.Size, &cfg.Page.Orientation, opts)
	if opts.width > 0 {
		cfg.Page.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Page.Height = opts.height
	}
	if opts.maxFragments > 0 {
		cfg.Pagination.MaxFragments = opts.maxFragments
	}

	popts, err := baseOptions(cfg)
	if err != nil {
		return err
	}
	popts.Format = format
	popts.Source = src
	popts.Refresh = opts.refresh
	popts.Logger = logger
	popts.Markdown.Header = opts.header
	popts.Markdown.Footer = opts.footer

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	var sp *spinner
	if opts.output != "" {
		sp = startSpinner(ctx, os.Stderr, "Paginating "+filepath.Base(path)+"...")
	}
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		if sp != nil {
			sp.fail("Pagination failed")
		}
		return err
	}
	if sp != nil {
		sp.stop()
	}
	prog.done("Paginated "+filepath.Base(path),
		"pages", result.Pages(),
		"warnings", len(result.Warnings),
		"cached", result.CacheInfo.LayoutHit)

	if err := writeOutput(result, opts); err != nil {
		return err
	}
	if opts.svg != "" {
		preview := svg.Render(result.Document, svg.WithOutlines(), svg.WithPageLabels())
		if err := os.WriteFile(opts.svg, preview, 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}
	if opts.output != "" {
		printSummary(result, opts.output)
		if opts.svg != "" {
			printFile(opts.svg)
		}
	}
	return nil
}

// applyPageFlags overrides the configured page size and orientation.
func applyPageFlags(size, orientation *string, opts paginateOpts) {
	if opts.size != "" {
		*size = strings.ToUpper(opts.size)
	}
	if opts.landscape {
		*orientation = "landscape"
	}
}

func writeOutput(result *pipeline.Result, opts paginateOpts) error {
	if opts.output == "" {
		if opts.full {
			return pipeline.WriteResult(os.Stdout, result)
		}
		return pio.WriteJSON(result.Document, os.Stdout)
	}
	if !opts.full {
		return pio.ExportJSON(result.Document, opts.output)
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := pipeline.WriteResult(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
