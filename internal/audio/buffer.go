package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"reelsmith/internal/media/ffmpeg"
)

// Buffer holds interleaved PCM samples normalized to [-1, 1].
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Frames returns the number of sample frames (one sample per channel).
func (b Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the buffer length in seconds.
func (b Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Load transcodes src to PCM WAV at the requested format using ffmpeg, writes
// the intermediate to wavPath, and decodes it.
func Load(ctx context.Context, runner ffmpeg.Runner, src, wavPath string, sampleRate, channels int) (Buffer, error) {
	if runner == nil {
		return Buffer{}, errors.New("audio load: ffmpeg runner required")
	}
	if sampleRate <= 0 || channels <= 0 {
		return Buffer{}, fmt.Errorf("audio load: invalid format %d Hz x %d", sampleRate, channels)
	}
	args := []string{"-i", src, "-vn", "-ac", strconv.Itoa(channels), "-ar", strconv.Itoa(sampleRate), "-c:a", "pcm_s16le", wavPath}
	if err := runner.Run(ctx, args...); err != nil {
		return Buffer{}, fmt.Errorf("audio load %s: %w", src, err)
	}
	return Decode(wavPath)
}

// Decode reads a PCM WAV file.
func Decode(path string) (Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return Buffer{}, fmt.Errorf("decode wav %s: not a valid wav file", path)
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("decode wav %s: %w", path, err)
	}
	depth := int(dec.BitDepth)
	if depth <= 0 {
		depth = 16
	}
	scale := float32(math.Pow(2, float64(depth-1)))

	out := Buffer{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		Samples:    make([]float32, len(pcm.Data)),
	}
	for i, v := range pcm.Data {
		out.Samples[i] = float32(v) / scale
	}
	return out, nil
}

// Save writes the buffer as 16-bit PCM WAV. Samples beyond full scale
// saturate.
func Save(path string, buf Buffer) error {
	if buf.SampleRate <= 0 || buf.Channels <= 0 {
		return fmt.Errorf("save wav: invalid format %d Hz x %d", buf.SampleRate, buf.Channels)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		data[i] = quantize(s)
	}

	enc := wav.NewEncoder(file, buf.SampleRate, 16, buf.Channels, 1)
	pcm := &goaudio.IntBuffer{
		Format:         &goaudio.Format{SampleRate: buf.SampleRate, NumChannels: buf.Channels},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(pcm); err != nil {
		file.Close()
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return file.Close()
}

func quantize(s float32) int {
	switch {
	case s >= 1:
		return math.MaxInt16
	case s <= -1:
		return math.MinInt16
	default:
		return int(math.Round(float64(s) * math.MaxInt16))
	}
}
