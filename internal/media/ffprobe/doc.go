// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and returns a Result; helper methods expose the
// stream facts the render pipeline relies on: duration, presence of audio
// and video, frame size, and frame rate.
package ffprobe
