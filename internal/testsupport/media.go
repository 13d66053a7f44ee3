package testsupport

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"reelsmith/internal/media/ffprobe"
)

// FakeFFmpeg records invocations and materializes the output file (the last
// argument) so later steps can stat or open it. Outputs ending in .wav are
// written as valid PCM files of WAVSeconds silence, or Tone when set; .png
// outputs are a small solid grey frame.
type FakeFFmpeg struct {
	mu    sync.Mutex
	calls [][]string

	// FailWhen returns a non-nil error to fail a matching invocation.
	FailWhen func(args []string) error
	// WAVSeconds sets the length of synthesized .wav outputs (default 1).
	WAVSeconds float64
	// Tone fills synthesized .wav outputs with a constant sample value.
	Tone float64
	// SampleRate and Channels shape synthesized .wav outputs (default 44100/2).
	SampleRate int
	Channels   int
}

// Run implements ffmpeg.Runner.
func (f *FakeFFmpeg) Run(ctx context.Context, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	if f.FailWhen != nil {
		if err := f.FailWhen(args); err != nil {
			return err
		}
	}
	if len(args) == 0 {
		return fmt.Errorf("ffmpeg: no arguments")
	}
	output := args[len(args)-1]
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	switch {
	case strings.HasSuffix(output, ".wav"):
		return f.writeWAV(output, wavArgInt(args, "-ar", f.SampleRate, 44100), wavArgInt(args, "-ac", f.Channels, 2))
	case strings.HasSuffix(output, ".png"):
		return writeFramePNG(output)
	}
	return os.WriteFile(output, []byte("fake media"), 0o644)
}

// Calls returns a copy of recorded invocations.
func (f *FakeFFmpeg) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.calls))
	for i, call := range f.calls {
		out[i] = append([]string(nil), call...)
	}
	return out
}

// CallsWith returns recorded invocations containing the given argument.
func (f *FakeFFmpeg) CallsWith(arg string) [][]string {
	var out [][]string
	for _, call := range f.Calls() {
		for _, a := range call {
			if a == arg {
				out = append(out, call)
				break
			}
		}
	}
	return out
}

func (f *FakeFFmpeg) writeWAV(path string, rate, channels int) error {
	seconds := f.WAVSeconds
	if seconds <= 0 {
		seconds = 1
	}
	frames := int(math.Round(seconds * float64(rate)))
	value := int(math.Round(f.Tone * 32767))
	data := make([]int, frames*channels)
	for i := range data {
		data[i] = value
	}
	return WriteWAV(path, rate, channels, data)
}

// WriteWAV writes 16-bit PCM samples to path.
func WriteWAV(path string, rate, channels int, samples []int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(file, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: rate, NumChannels: channels},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		file.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func wavArgInt(args []string, flag string, override, fallback int) int {
	if override > 0 {
		return override
	}
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			if v, err := strconv.Atoi(args[i+1]); err == nil && v > 0 {
				return v
			}
		}
	}
	return fallback
}

// ProbeTable answers ffprobe lookups from a fixed map of durations keyed by
// path. Paths listed in Silent report no audio stream; unknown paths fail.
type ProbeTable struct {
	Durations map[string]float64
	Silent    map[string]bool
}

// Probe satisfies the probe function signature used across the pipeline.
func (p ProbeTable) Probe(_ context.Context, path string) (ffprobe.Result, error) {
	duration, ok := p.Durations[path]
	if !ok {
		return ffprobe.Result{}, fmt.Errorf("ffprobe inspect: %s: no such file", path)
	}
	result := ffprobe.Result{
		Streams: []ffprobe.Stream{{Index: 0, CodecType: "video", Width: 1920, Height: 1080, AvgFrameRate: "30/1"}},
		Format:  ffprobe.Format{Filename: path, Duration: strconv.FormatFloat(duration, 'f', -1, 64)},
	}
	if !p.Silent[path] {
		result.Streams = append(result.Streams, ffprobe.Stream{Index: 1, CodecType: "audio", SampleRate: "44100", Channels: 2})
	}
	return result, nil
}

func writeFramePNG(path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 54, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 54; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 90, B: 90, A: 255})
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
