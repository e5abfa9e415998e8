// Package logging provides structured logging for Ecosfera Core.
//
// It wraps log/slog with configuration-driven level, format and output
// selection, and stamps every record with service and version fields.
//
// Usage:
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("database connected", "path", cfg.Database.Path)
package logging
