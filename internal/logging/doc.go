// Package logging assembles the structured slog loggers used by mealprep.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// attribute helpers that keep field names consistent across packages. Every
// CLI invocation is tagged with a run identifier so the lines of one run can
// be pulled out of a shared log file. A no-op logger is provided for tests
// and for wiring code that has no logger to hand.
package logging
