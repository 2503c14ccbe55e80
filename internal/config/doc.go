// Package config loads, normalizes, and validates the subsample TOML
// configuration.
//
// Configuration resolves from an explicit --config flag, then
// ~/.config/subsample/config.toml, then ./subsample.toml; a missing file
// means repository defaults. All path fields come back expanded and absolute.
package config
