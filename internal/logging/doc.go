// Package logging assembles the structured slog loggers used across ruv-dl.
//
// It owns the compact console handler for interactive runs, JSON output for
// non-interactive use, and the fanout that mirrors every record into the
// work-directory log file at debug level. Prefer these constructors over
// hand-rolled slog setup so all components emit records with the same shape.
package logging
