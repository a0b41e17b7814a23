// Package config loads gridboard's TOML configuration.
//
// A missing file is not an error: every knob has a built-in default, and the
// file only overrides what it names. Paths support "~" expansion.
package config
