package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rpggio/retroboard/internal/config"
)

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// newLogger writes to stdout, or to cfg.Path when set. A log file that cannot
// be opened falls back to stdout.
func newLogger(cfg config.LogConfig) (*slog.Logger, func()) {
	var out io.Writer = os.Stdout
	closer := func() {}
	if cfg.Path != "" {
		file, err := openTrimmedLog(cfg.Path, maxLogSizeBytes, keepLogSizeBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			out = file
			closer = func() { _ = file.Close() }
		}
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}))
	return logger, closer
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// trimmedLog is an append-only log file that drops its oldest lines once it
// grows past limit, keeping roughly the newest keep bytes.
type trimmedLog struct {
	mu    sync.Mutex
	file  *os.File
	limit int64
	keep  int64
}

func openTrimmedLog(path string, limit, keep int64) (*trimmedLog, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l := &trimmedLog{file: file, limit: limit, keep: keep}
	if err := l.trim(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return l, nil
}

func (l *trimmedLog) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, l.trim()
}

func (l *trimmedLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func (l *trimmedLog) trim() error {
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= l.limit {
		return nil
	}

	tail := make([]byte, l.keep)
	n, err := l.file.ReadAt(tail, size-l.keep)
	if err != nil && err != io.EOF {
		return err
	}
	tail = tail[:n]
	// Start on a whole line.
	if i := bytes.IndexByte(tail, '\n'); i >= 0 {
		tail = tail[i+1:]
	}

	if err := l.file.Truncate(0); err != nil {
		return err
	}
	_, err = l.file.Write(tail)
	return err
}
