// Package cli implements the pageflow command-line interface.
//
// The commands paginate JSON or Markdown documents, serve the HTTP API and
// manage the result cache. The CLI is built using cobra and logs with the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - paginate: Paginate a document file into page fragments
//   - serve: Run the HTTP pagination API
//   - cache: Inspect and clear the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with short
// "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one command step and logs its outcome.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time rounded to
// the millisecond, as in
//
//	Paginated report.md pages=3 warnings=0 cached=false elapsed=12ms
func (p *progress) done(msg string, keyvals ...any) {
	fields := make([]any, 0, len(keyvals)+2)
	fields = append(fields, keyvals...)
	fields = append(fields, "elapsed", p.elapsed())
	p.logger.Info(msg, fields...)
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default when ctx
// carries none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
