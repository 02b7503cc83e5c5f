package app

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger configured from LOG_FORMAT. Production
// deployments run with "json"; anything else gets the readable text handler.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if cfg != nil && cfg.IsProduction() {
		opts.Level = slog.LevelInfo
	} else {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "nozze"))
}
