// Package logging configures the process-wide logrus logger and hands out
// component-scoped entries.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"geomap/internal/config"
)

var (
	mu      sync.Mutex
	root    = newDiscard()
	logFile *os.File
)

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup points the root logger at cfg.File. Without a file, logs go to
// stderr only when it is not a terminal, since the terminal belongs to the
// TUI. The returned cleanup closes the file and restores the discard logger.
func Setup(cfg config.LogConfig) (func() error, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	var f *os.File
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.SetOutput(f)
	case !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()):
		l.SetOutput(os.Stderr)
	default:
		l.SetOutput(io.Discard)
	}

	mu.Lock()
	root = l
	logFile = f
	mu.Unlock()

	NewLogger("logging").WithFields(logrus.Fields{"level": level, "file": cfg.File}).Debug("logger initialized")

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		root = newDiscard()
		return cerr
	}, nil
}

// NewLogger returns an entry tagged with component.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()
	return root.WithField("component", component)
}
