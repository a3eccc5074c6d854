// Package config loads, normalizes, and validates the catsearch
// configuration file.
//
// Configuration lives in a TOML file, by default at
// ~/.config/catsearch/config.toml, with a catsearch.toml in the working
// directory as fallback. Every field has a usable default; an absent file is
// not an error.
package config
