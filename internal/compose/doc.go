// Package compose produces the final video: captions composited over the
// background with the mixed audio, optional intro and outro joined around it,
// and the result published atomically to the output path.
//
// Caption overlays are an ordered list of (interval, image) pairs. OverlayAt
// answers which caption is visible at a time; the encoder receives the same
// list as an image sequence.
package compose
