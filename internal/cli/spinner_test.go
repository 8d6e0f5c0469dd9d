package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer lets the test read what the spinner goroutine writes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStop(t *testing.T) {
	s := startSpinner(context.Background(), io.Discard, "Testing...")
	time.Sleep(100 * time.Millisecond)
	s.stop()

	if s.cancelled() {
		t.Error("stopped spinner reported as cancelled")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{name: "cancel", ctx: func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{name: "timeout", ctx: func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := startSpinner(ctx, io.Discard, "Paginating...")
			<-s.stopped
			if !s.cancelled() {
				t.Error("spinner should report cancellation")
			}
			s.stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := startSpinner(context.Background(), io.Discard, "Testing idempotent stop...")
	s.stop()
	s.stop()
	s.stop()
}

func TestSpinnerFrames(t *testing.T) {
	var buf lockedBuffer
	s := startSpinner(context.Background(), &buf, "Paginating report.md...")
	time.Sleep(200 * time.Millisecond)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Paginating report.md...") {
		t.Errorf("spinner output %q should contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner output %q should end by erasing the line", out)
	}
}

func TestSpinnerFail(t *testing.T) {
	s := startSpinner(context.Background(), io.Discard, "Testing error...")
	time.Sleep(50 * time.Millisecond)
	s.fail("Failed!")
	if s.cancelled() {
		t.Error("failed spinner reported as cancelled")
	}
}
