// Package services defines shared utilities consumed by the sampling, conversion
// and export workflows.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, stage names, and request
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (validation, external tool, configuration) for the CLI surface.
package services
