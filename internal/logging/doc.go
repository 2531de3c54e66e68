// Package logging constructs the application's slog loggers.
//
// Two output formats are supported: a human console format with level
// coloring when attached to a terminal, and line-delimited JSON for log
// collection. A file sink under the configured log directory can be added
// alongside either.
package logging
