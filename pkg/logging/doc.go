// Package logging provides structured logging configuration for mocktrip.
//
// This package wraps log/slog to provide consistent logging across the
// interception engine. It supports configurable log levels and output
// formats.
//
// # Usage
//
// Create a logger with the desired configuration and hand it to a scope:
//
//	logger := logging.New(logging.Config{
//	    Level:  slog.LevelDebug,
//	    Format: logging.FormatText,
//	})
//	m := mocker.New(mocker.WithLogger(logger))
//
// # Output Formats
//
//   - Text: Human-readable format for development
//   - JSON: Structured format for log aggregation systems
//
// # Integration
//
// Components accept a *slog.Logger and default to Nop(), so library users
// get silent operation unless they opt in. Debug() is a shorthand for a
// debug-level text logger, handy when diagnosing why a request did or did
// not match a pattern.
package logging
