package audio_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"reelsmith/internal/audio"
	"reelsmith/internal/services"
	"reelsmith/internal/testsupport"
)

func constant(rate, channels int, seconds float64, value float32) audio.Buffer {
	frames := int(math.Round(seconds * float64(rate)))
	samples := make([]float32, frames*channels)
	for i := range samples {
		samples[i] = value
	}
	return audio.Buffer{SampleRate: rate, Channels: channels, Samples: samples}
}

func TestMixWithoutMusicEqualsNarration(t *testing.T) {
	narr := constant(1000, 2, 2, 0.5)
	out, err := audio.Mix(narr, nil, 2)
	if err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}
	if out.Frames() != 2000 {
		t.Fatalf("frames = %d, want 2000", out.Frames())
	}
	for i, s := range out.Samples {
		if s != narr.Samples[i] {
			t.Fatalf("sample %d = %v, want %v", i, s, narr.Samples[i])
		}
	}
}

func TestMixFitsNarrationToDuration(t *testing.T) {
	narr := constant(1000, 1, 1.5, 0.25)
	out, err := audio.Mix(narr, nil, 2)
	if err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}
	if out.Frames() != 2000 {
		t.Fatalf("frames = %d, want 2000", out.Frames())
	}
	if out.Samples[len(out.Samples)-1] != 0 {
		t.Fatalf("expected silence padding at end, got %v", out.Samples[len(out.Samples)-1])
	}

	long := constant(1000, 1, 3, 0.25)
	cut, err := audio.Mix(long, nil, 2)
	if err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}
	if cut.Frames() != 2000 {
		t.Fatalf("expected truncation to 2000 frames, got %d", cut.Frames())
	}
}

func TestMixLoopsMusicWithVolumeAndFades(t *testing.T) {
	const rate = 1000
	narr := constant(rate, 1, 10, 0)
	music := &audio.Music{Buffer: constant(rate, 1, 3, 1), Volume: 0.25, FadeIn: 1, FadeOut: 1}

	out, err := audio.Mix(narr, music, 10)
	if err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}
	if out.Frames() != 10*rate {
		t.Fatalf("frames = %d, want %d", out.Frames(), 10*rate)
	}
	if out.Samples[0] != 0 {
		t.Fatalf("expected fade-in to start at 0, got %v", out.Samples[0])
	}
	if got := out.Samples[rate/2]; math.Abs(float64(got)-0.125) > 1e-6 {
		t.Fatalf("half-way through fade-in = %v, want 0.125", got)
	}
	// 7.5s lies in the third repeat of the 3s bed, outside both fades.
	if got := out.Samples[7500]; math.Abs(float64(got)-0.25) > 1e-6 {
		t.Fatalf("looped music at 7.5s = %v, want 0.25", got)
	}
	if last := out.Samples[len(out.Samples)-1]; last != 0 {
		t.Fatalf("expected fade-out to end at 0, got %v", last)
	}
}

func TestMixDoesNotFadeNarration(t *testing.T) {
	narr := constant(100, 1, 2, 0.5)
	music := &audio.Music{Buffer: constant(100, 1, 1, 0), Volume: 0.4, FadeIn: 1, FadeOut: 1}
	out, err := audio.Mix(narr, music, 2)
	if err != nil {
		t.Fatalf("Mix returned error: %v", err)
	}
	if out.Samples[0] != 0.5 || out.Samples[len(out.Samples)-1] != 0.5 {
		t.Fatalf("narration should be untouched at the edges: %v %v", out.Samples[0], out.Samples[len(out.Samples)-1])
	}
}

func TestMixRejectsInvalidInput(t *testing.T) {
	narr := constant(1000, 2, 1, 0)
	if _, err := audio.Mix(narr, nil, 0); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput for zero duration, got %v", err)
	}
	if _, err := audio.Mix(audio.Buffer{}, nil, 1); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput for empty format, got %v", err)
	}
	mismatch := &audio.Music{Buffer: constant(2000, 2, 1, 0.1), Volume: 0.2}
	if _, err := audio.Mix(narr, mismatch, 1); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput for format mismatch, got %v", err)
	}
}

func TestSaveAndDecodeRoundTripSaturates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.wav")
	buf := audio.Buffer{SampleRate: 8000, Channels: 1, Samples: []float32{0, 0.5, -0.5, 1.7, -2}}
	if err := audio.Save(path, buf); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := audio.Decode(path)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got.SampleRate != 8000 || got.Channels != 1 || len(got.Samples) != 5 {
		t.Fatalf("unexpected decoded buffer %+v", got)
	}
	if math.Abs(float64(got.Samples[1])-0.5) > 1e-3 {
		t.Fatalf("sample 1 = %v, want ~0.5", got.Samples[1])
	}
	if got.Samples[3] < 0.999 {
		t.Fatalf("expected positive saturation, got %v", got.Samples[3])
	}
	if got.Samples[4] != -1 {
		t.Fatalf("expected negative saturation, got %v", got.Samples[4])
	}
}

func TestLoadTranscodesThroughFFmpeg(t *testing.T) {
	fake := &testsupport.FakeFFmpeg{WAVSeconds: 2, Tone: 0.5}
	wavPath := filepath.Join(t.TempDir(), "music.wav")

	buf, err := audio.Load(context.Background(), fake, "/library/music/bed.mp3", wavPath, 22050, 2)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if buf.SampleRate != 22050 || buf.Channels != 2 {
		t.Fatalf("unexpected format %d Hz x %d", buf.SampleRate, buf.Channels)
	}
	if math.Abs(buf.Duration()-2) > 1e-3 {
		t.Fatalf("duration = %v, want 2", buf.Duration())
	}
	if len(fake.CallsWith("pcm_s16le")) != 1 {
		t.Fatalf("expected one pcm transcode, got %v", fake.Calls())
	}
}

func TestLoadPropagatesFFmpegFailure(t *testing.T) {
	fake := &testsupport.FakeFFmpeg{FailWhen: func([]string) error { return errors.New("unsupported codec") }}
	if _, err := audio.Load(context.Background(), fake, "bad.mp3", filepath.Join(t.TempDir(), "x.wav"), 44100, 2); err == nil {
		t.Fatal("expected load error")
	}
}
