package narration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"reelsmith/internal/media/ffprobe"
	"reelsmith/internal/services"
)

// Track is a synthesized narration asset and its measured length.
type Track struct {
	Path     string
	Duration float64
}

// MeasureDuration returns the playable length of the narration asset in
// seconds. Every failure is an input error: the render cannot proceed
// without a narration of positive length.
func MeasureDuration(ctx context.Context, probe ffprobe.ProbeFunc, track Track) (float64, error) {
	path := strings.TrimSpace(track.Path)
	if path == "" {
		return 0, services.Wrap(services.ErrInput, "narration", "measure", "narration path is empty", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, services.Wrap(services.ErrInput, "narration", "measure", "narration asset unreadable", err)
	}
	if info.IsDir() {
		return 0, services.Wrap(services.ErrInput, "narration", "measure", "narration path is a directory", nil)
	}
	if probe == nil {
		return 0, services.Wrap(services.ErrInput, "narration", "measure", "no probe configured", nil)
	}
	result, err := probe(ctx, path)
	if err != nil {
		return 0, services.Wrap(services.ErrInput, "narration", "probe", "ffprobe failed", err)
	}
	if !result.HasAudio() {
		return 0, services.Wrap(services.ErrInput, "narration", "probe", "narration has no audio stream", nil)
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, services.Wrap(services.ErrInput, "narration", "probe",
			fmt.Sprintf("narration duration %v is not positive", duration), nil)
	}
	return duration, nil
}

// Synthesizer turns a script into a narration track.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, voice string, speed float64) (Track, error)
}

// FileSynthesizer serves a narration that was synthesized ahead of time.
// Script, voice, and speed are ignored; the asset is measured on every call.
type FileSynthesizer struct {
	Path  string
	Probe ffprobe.ProbeFunc
}

// Synthesize returns the pre-rendered track with its measured duration.
func (s FileSynthesizer) Synthesize(ctx context.Context, _ string, _ string, _ float64) (Track, error) {
	if strings.TrimSpace(s.Path) == "" {
		return Track{}, services.Wrap(services.ErrInput, "narration", "synthesize", "no narration asset supplied", errors.New("narration path required"))
	}
	track := Track{Path: s.Path}
	duration, err := MeasureDuration(ctx, s.Probe, track)
	if err != nil {
		return Track{}, err
	}
	track.Duration = duration
	return track, nil
}
