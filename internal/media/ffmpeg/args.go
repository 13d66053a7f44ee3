package ffmpeg

import (
	"fmt"
	"strconv"
)

// Canvas fixes the frame geometry every intermediate file is normalized to.
type Canvas struct {
	Width     int
	Height    int
	FrameRate int
}

// Encoder carries the codec settings for video and audio output.
type Encoder struct {
	VideoCodec   string
	Preset       string
	CRF          int
	PixelFormat  string
	AudioCodec   string
	AudioBitrate string
	SampleRate   int
	Channels     int
}

// FillFilter scales to cover the canvas, crops the overflow, and resamples
// the frame rate. Used for stock footage.
func FillFilter(c Canvas) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1,fps=%d",
		c.Width, c.Height, c.Width, c.Height, c.FrameRate)
}

// FitFilter scales to fit inside the canvas and pads the remainder. Used for
// branding clips whose framing must not be cropped.
func FitFilter(c Canvas) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d",
		c.Width, c.Height, c.Width, c.Height, c.FrameRate)
}

// VideoArgs returns the video encoder flags.
func (e Encoder) VideoArgs() []string {
	args := []string{"-c:v", e.VideoCodec}
	if e.Preset != "" {
		args = append(args, "-preset", e.Preset)
	}
	if e.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(e.CRF))
	}
	if e.PixelFormat != "" {
		args = append(args, "-pix_fmt", e.PixelFormat)
	}
	return args
}

// AudioArgs returns the audio encoder flags.
func (e Encoder) AudioArgs() []string {
	args := []string{"-c:a", e.AudioCodec}
	if e.AudioBitrate != "" {
		args = append(args, "-b:a", e.AudioBitrate)
	}
	if e.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(e.SampleRate))
	}
	if e.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(e.Channels))
	}
	return args
}

// Seconds formats a duration for ffmpeg time options with millisecond precision.
func Seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// ChannelLayout maps a channel count to the lavfi layout name.
func ChannelLayout(channels int) string {
	if channels == 1 {
		return "mono"
	}
	return "stereo"
}
