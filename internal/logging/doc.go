// Package logging builds the slog loggers used by asciivid.
//
// Records go to a console or JSON handler per destination. The CLI writes to
// stderr and to a log file under the configured log directory; stdout is left
// for rendered frames and command results. Sampling and export code tag lines
// with session IDs, request IDs and stages through WithContext.
package logging
