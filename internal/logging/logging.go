// Package logging builds the zerolog loggers used by the commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	App     string
	Level   string
	LogsDir string    // empty disables the log file
	Console io.Writer // defaults to os.Stderr
	NoColor bool
	Now     func() time.Time
}

// ParseLevel maps a config string to a zerolog level, falling back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogFilePath builds <dir>/<app>.<YYYYMMDD_HHMMSS>.log.
func LogFilePath(logsDir, app string, start time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", app, start.Format("20060102_150405")))
}

// New returns a logger writing human-readable lines to the console and, when
// LogsDir is set, JSON lines to a per-run file. The returned closer releases
// the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: "15:04:05.000",
		NoColor:    opts.NoColor,
	}}

	var closer io.Closer = nopCloser{}
	if opts.LogsDir != "" {
		if err := os.MkdirAll(opts.LogsDir, 0755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("logging: %w", err)
		}
		f, err := os.OpenFile(LogFilePath(opts.LogsDir, opts.App, now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("logging: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("app", opts.App).
		Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
