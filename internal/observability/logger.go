package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/neo-data-export/internal/config"
	"github.com/jonboulle/clockwork"
)

// NewLogger builds a slog.Logger that writes to stderr and to a per-run
// log file under cfg.LogDir, named from the clock's current time. The
// returned closer releases the file handle and must be called when the
// run ends.
func NewLogger(cfg *config.Config, clock clockwork.Clock) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	name := fmt.Sprintf("neo_etl_%s.log", clock.Now().UTC().Format("20060102T150405Z"))
	file, err := os.Create(filepath.Join(cfg.LogDir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("create log file: %w", err)
	}

	out := io.MultiWriter(os.Stderr, file)
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), file.Close, nil
}

func parseLevel(level string) slog.Level {
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
