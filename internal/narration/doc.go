// Package narration measures the narration asset that anchors every render.
//
// The narration length D is the master clock: background footage, music, and
// captions are all fitted to it.
package narration
