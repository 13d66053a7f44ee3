// Package audio mixes narration and background music into one PCM track.
//
// Media files are transcoded to WAV by ffmpeg and decoded with go-audio; the
// mix itself runs in Go so its length and gain envelope are exact.
package audio
