package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{name: "info at info", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Info("fragment") }, wantLog: true},
		{name: "debug at info", level: log.InfoLevel, logFunc: func(l *log.Logger) { l.Debug("fragment") }},
		{name: "debug at debug", level: log.DebugLevel, logFunc: func(l *log.Logger) { l.Debug("fragment") }, wantLog: true},
		{name: "warn at error", level: log.ErrorLevel, logFunc: func(l *log.Logger) { l.Warn("divergence") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	tests := []struct {
		name    string
		keyvals []any
		want    []string
	}{
		{name: "message only", want: []string{"Paginated report.md", "elapsed="}},
		{
			name:    "fields",
			keyvals: []any{"pages", 3, "cached", true},
			want:    []string{"Paginated report.md", "pages=3", "cached=true", "elapsed="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prog := newProgress(newLogger(&buf, log.InfoLevel))
			time.Sleep(5 * time.Millisecond)
			prog.done("Paginated report.md", tt.keyvals...)

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q should contain %q", out, w)
				}
			}
		})
	}
}

func TestProgressSilentAboveInfo(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.WarnLevel)).done("Paginated")
	if buf.Len() != 0 {
		t.Errorf("output = %q, want none at warn level", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("empty context should yield the default logger")
	}
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("attached")
	if !strings.Contains(buf.String(), "attached") {
		t.Errorf("output = %q, want the attached logger's output", buf.String())
	}
}
