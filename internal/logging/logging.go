// Package logging builds the zerolog logger shared by the CLI, the services
// and the HTTP server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v3"

	"github.com/cleared-dev/crania/internal/config"
)

// New builds a logger from cfg, writing to w unless a log file is set.
// Close the returned io.Closer when done; it is a no-op without a file.
func New(cfg config.LogConfig, w io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("parsing log level: %w", err)
		}
		level = l
	}

	var closer io.Closer = nopCloser{}
	target := w
	if cfg.File != "" {
		f, err := openFile(cfg.File)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		target, closer = f, f
	}
	if cfg.Pretty && cfg.File == "" {
		target = zerolog.ConsoleWriter{Out: target, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(target).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// openFile opens path for appending. A path without an extension gets a
// dated .log suffix.
func openFile(path string) (*os.File, error) {
	if filepath.Ext(path) == "" {
		path = path + time.Now().Format("-2006-01-02") + ".log"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// Echo adapts logger for use as echo's logger.
func Echo(logger zerolog.Logger) *lecho.Logger {
	return lecho.From(logger)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
