package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats understood by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	mu      sync.RWMutex
	current = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// New builds a logger writing to w at the given level. Format "console"
// produces human-readable lines; anything else writes JSON.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if strings.EqualFold(format, FormatConsole) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// SetDefault replaces the process logger returned by L.
func SetDefault(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// L returns the process logger.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := current
	return &l
}
