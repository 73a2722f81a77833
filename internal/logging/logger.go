// Package logging configures slog: JSON to stdout, plus ERROR+ records
// persisted to the system_logs table.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger as the default. Debug records are
// only emitted outside production.
func Setup(production bool) slog.Handler {
	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return handler
}

// Persist fans the default logger out to stdout and the database handler.
func Persist(stdout slog.Handler, pg *PGHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(stdout, pg)))
}
