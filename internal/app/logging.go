package app

import (
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2/data/binding"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logLimit = 300

// LogCapture keeps the most recent log lines for the log panel.
type LogCapture struct {
	mu      sync.Mutex
	lines   []string
	limit   int
	binding binding.String
}

// NewLogCapture retains at most limit lines.
func NewLogCapture(limit int) *LogCapture {
	if limit <= 0 {
		limit = logLimit
	}
	return &LogCapture{limit: limit}
}

// Attach mirrors the captured lines into b, starting with what is already buffered.
func (l *LogCapture) Attach(b binding.String) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.binding = b
	if b != nil {
		_ = b.Set(strings.Join(l.lines, "\n"))
	}
}

func (l *LogCapture) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		l.lines = append(l.lines, part)
	}
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	if l.binding != nil {
		_ = l.binding.Set(strings.Join(l.lines, "\n"))
	}
	return len(p), nil
}

// Sync satisfies zapcore.WriteSyncer.
func (l *LogCapture) Sync() error { return nil }

// Lines returns a copy of the buffered lines.
func (l *LogCapture) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// NewLogger writes console-encoded entries to stdout and to capture.
func NewLogger(verbose bool, capture *LogCapture) *zap.Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)}
	if capture != nil {
		cores = append(cores, zapcore.NewCore(encoder, capture, level))
	}
	return zap.New(zapcore.NewTee(cores...))
}
