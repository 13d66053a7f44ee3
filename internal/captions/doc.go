// Package captions turns a script into timed, rendered caption overlays.
//
// Segment partitions the text into units that share the narration length
// equally. A Renderer draws each unit onto a transparent band with a drop
// shadow, falling back to the built-in Go Regular face when the configured
// font cannot be loaded. WriteSRT emits the same units as a sidecar.
package captions
