// Package ffmpeg runs the ffmpeg binary and builds the argument fragments the
// render pipeline shares: canvas filters, encoder flags, and concat demuxer
// scripts.
//
// Callers depend on the Runner interface so tests can substitute a recorder
// that never spawns a process.
package ffmpeg
