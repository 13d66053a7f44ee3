// Package timeline holds the duration arithmetic shared by background
// assembly and final composition: fitting a clip sequence to a target length
// and ordering the intro, core, and outro segments.
package timeline
