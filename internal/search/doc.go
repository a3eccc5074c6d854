// Package search implements the catalog query engine: a pure filter over a
// catalog.Store selecting spectral lines by frequency window, intensity
// window (optionally rescaled to a requested temperature), and substance
// metadata. The engine keeps no state between calls and is safe for
// concurrent use against a store that is not being mutated.
package search
