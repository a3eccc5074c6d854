// Package logging constructs the slog loggers used across catsearch: a
// compact single-line console handler for interactive use and a JSON handler
// for machine consumption. Log output goes to stderr so tables and catalog
// data on stdout stay clean.
package logging
