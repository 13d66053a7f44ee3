// Package background builds the stock-footage track behind the captions.
//
// Candidates are shuffled with an injected random source, probed, trimmed to
// a few seconds each, and normalized to the output canvas. The accepted
// sequence is looped and cut to the narration length, then rendered through
// the ffmpeg concat demuxer.
package background
