// Package wlog wraps log/slog the way the component-model constructor
// package's internal/log does: a package-level Base returning a single
// realm-tagged logger, with call sites reaching for slog.DebugContext (or
// a logger.With(...)'d off Base) directly rather than inventing a richer
// logging abstraction. Logging here is side-channel only (spec.md §5: a
// weave is single-threaded and deterministic); nothing in driver branches
// on whether a log call succeeds or what it was given.
package wlog

import "log/slog"

// Base returns a logger tagged with mixweave's realm, mirroring
// constructor/internal/log.Base's "realm" field.
func Base() *slog.Logger {
	return slog.With(slog.String("realm", "mixweave"))
}

// Discovery returns a logger tagged for the discovery phase (spec.md §4.F
// step 1: building the IL graph rooted at the source type).
func Discovery() *slog.Logger {
	return Base().With(slog.String("phase", "discovery"))
}

// Creation returns a logger tagged for the creation pass (step 3: cloning
// in parent/child ∪ sibling order).
func Creation() *slog.Logger {
	return Base().With(slog.String("phase", "creation"))
}

// Population returns a logger tagged for the population pass (step 5:
// cloning in dependency order).
func Population() *slog.Logger {
	return Base().With(slog.String("phase", "population"))
}
