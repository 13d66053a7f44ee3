// Package config loads, normalizes, and validates reelsmith configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REELSMITH_FFMPEG. The Config type centralizes every knob a render needs:
// canvas and encoder settings, clip sampling, mix levels, caption layout, and
// branding assets.
//
// A Config is loaded once at process start and treated as immutable; the
// render engine derives per-request settings from it rather than reading
// ambient state.
package config
