package audio

import (
	"fmt"
	"math"

	"reelsmith/internal/services"
)

// Music is the optional background bed under the narration.
type Music struct {
	Buffer  Buffer
	Volume  float64
	FadeIn  float64
	FadeOut float64
}

// Mix produces exactly duration seconds of audio: the narration fitted to the
// duration (padded with silence or cut) plus, when music is present, the music
// looped and cut to the same length, scaled by its volume, and faded in and
// out. The narration is never faded. Sums are not limited; Save saturates.
func Mix(narration Buffer, music *Music, duration float64) (Buffer, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return Buffer{}, services.Wrap(services.ErrInput, "audio", "mix", fmt.Sprintf("invalid duration %v", duration), nil)
	}
	if narration.SampleRate <= 0 || narration.Channels <= 0 {
		return Buffer{}, services.Wrap(services.ErrInput, "audio", "mix", "narration has no sample format", nil)
	}

	channels := narration.Channels
	frames := int(math.Round(duration * float64(narration.SampleRate)))
	out := Buffer{
		SampleRate: narration.SampleRate,
		Channels:   channels,
		Samples:    make([]float32, frames*channels),
	}
	copy(out.Samples, narration.Samples)

	if music == nil || music.Buffer.Frames() == 0 || music.Volume <= 0 {
		return out, nil
	}
	if music.Buffer.SampleRate != narration.SampleRate || music.Buffer.Channels != channels {
		return Buffer{}, services.Wrap(services.ErrInput, "audio", "mix",
			fmt.Sprintf("music format %d Hz x %d does not match narration %d Hz x %d",
				music.Buffer.SampleRate, music.Buffer.Channels, narration.SampleRate, channels), nil)
	}

	volume := math.Min(music.Volume, 1)
	fadeIn := int(math.Round(math.Max(music.FadeIn, 0) * float64(out.SampleRate)))
	fadeOut := int(math.Round(math.Max(music.FadeOut, 0) * float64(out.SampleRate)))
	musicFrames := music.Buffer.Frames()

	for frame := 0; frame < frames; frame++ {
		gain := volume * envelope(frame, frames, fadeIn, fadeOut)
		if gain == 0 {
			continue
		}
		src := (frame % musicFrames) * channels
		dst := frame * channels
		for ch := 0; ch < channels; ch++ {
			out.Samples[dst+ch] += float32(gain) * music.Buffer.Samples[src+ch]
		}
	}
	return out, nil
}

// envelope is the linear fade gain for a frame: ramping from 0 over the
// first fadeIn frames and back to 0 over the last fadeOut frames.
func envelope(frame, total, fadeIn, fadeOut int) float64 {
	gain := 1.0
	if fadeIn > 0 && frame < fadeIn {
		gain *= float64(frame) / float64(fadeIn)
	}
	if fadeOut > 0 {
		if remaining := total - 1 - frame; remaining < fadeOut {
			gain *= float64(remaining) / float64(fadeOut)
		}
	}
	return gain
}
