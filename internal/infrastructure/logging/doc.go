// Package logging provides structured logging for the generator.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the entire application.
//
// # Features
//
//   - JSON output for machine consumption
//   - Text output for terminals (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("generation complete", "nodes", 42)
//	logger.Error("failed to read CSV", "error", err)
//
// # Security
//
// Never log secrets, tokens or passwords. OPC UA credentials and InfluxDB
// tokens pass through this tool; they stay out of the log stream.
package logging
