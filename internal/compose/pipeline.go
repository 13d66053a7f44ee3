package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"reelsmith/internal/captions"
	"reelsmith/internal/logging"
	"reelsmith/internal/media/ffmpeg"
	"reelsmith/internal/media/ffprobe"
	"reelsmith/internal/services"
	"reelsmith/internal/timeline"
)

// Spec is the immutable output description for one request.
type Spec struct {
	Canvas  ffmpeg.Canvas
	Encoder ffmpeg.Encoder
	Output  string
	// Margin is the caption band distance from the top or bottom edge.
	Margin int
}

// Input gathers everything the pipeline composites.
type Input struct {
	Spec       Spec
	Duration   float64
	Background string
	Audio      string
	Overlays   []captions.Overlay
	// Intro and Outro are optional branding assets; empty means none.
	Intro   string
	Outro   string
	WorkDir string
}

// Result describes the finished file.
type Result struct {
	Output   string
	Duration float64
	Timeline timeline.Timeline
	// Omitted lists branding assets that were requested but unusable.
	Omitted []string
}

// Pipeline composites captions over the background, joins branding, and
// publishes the encoded file atomically.
type Pipeline struct {
	FFmpeg ffmpeg.Runner
	Probe  ffprobe.ProbeFunc
	Logger *slog.Logger
}

// NewPipeline constructs a Pipeline with a component logger.
func NewPipeline(runner ffmpeg.Runner, probe ffprobe.ProbeFunc, logger *slog.Logger) *Pipeline {
	return &Pipeline{FFmpeg: runner, Probe: probe, Logger: logging.NewComponentLogger(logger, "compose")}
}

// Compose renders the request to in.Spec.Output. The output path is written
// only by a rename of a fully encoded temporary file in the same directory;
// on any failure the temporary file is removed.
func (p *Pipeline) Compose(ctx context.Context, in Input) (Result, error) {
	if err := validateInput(in); err != nil {
		return Result{}, err
	}
	if p.FFmpeg == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "compose", "setup", "ffmpeg runner not configured", nil)
	}
	logger := logging.WithContext(ctx, p.Logger)

	outDir := filepath.Dir(in.Spec.Output)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrResource, "compose", "prepare", "create output directory", err)
	}
	if err := os.MkdirAll(in.WorkDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrResource, "compose", "prepare", "create work directory", err)
	}

	temp := TempPath(in.Spec.Output)
	if err := probeWritable(temp); err != nil {
		return Result{}, services.Wrap(services.ErrResource, "compose", "prepare", "output directory is not writable", err)
	}
	published := false
	defer func() {
		if !published {
			_ = os.Remove(temp)
		}
	}()

	intro, omittedIntro := p.brandingSegment(ctx, logger, in, in.Intro, "intro")
	outro, omittedOutro := p.brandingSegment(ctx, logger, in, in.Outro, "outro")
	var omitted []string
	omitted = append(omitted, omittedIntro...)
	omitted = append(omitted, omittedOutro...)

	core := timeline.Segment{Kind: timeline.Core, Path: filepath.Join(in.WorkDir, "core.mp4"), Duration: in.Duration}
	tl := timeline.Assemble(core, intro, outro)
	if tl.CoreOnly() {
		tl.Segments[0].Path = temp
	}

	coreTarget := tl.Segments[indexOf(tl, timeline.Core)].Path
	if err := p.encodeCore(ctx, in, coreTarget); err != nil {
		return Result{}, err
	}

	if !tl.CoreOnly() {
		if err := p.join(ctx, in.WorkDir, tl, temp); err != nil {
			return Result{}, err
		}
	}

	if err := os.Rename(temp, in.Spec.Output); err != nil {
		return Result{}, services.Wrap(services.ErrResource, "compose", "publish", "rename output into place", err)
	}
	published = true

	logger.Info("composition published",
		logging.String("output", in.Spec.Output),
		logging.Int("segments", len(tl.Segments)),
		logging.Seconds("duration_seconds", tl.Duration()),
	)
	return Result{Output: in.Spec.Output, Duration: tl.Duration(), Timeline: tl, Omitted: omitted}, nil
}

// TempPath returns the hidden temporary name used while encoding output.
func TempPath(output string) string {
	dir, base := filepath.Split(output)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.partial", base, uuid.NewString()[:8]))
}

func validateInput(in Input) error {
	switch {
	case strings.TrimSpace(in.Spec.Output) == "":
		return services.Wrap(services.ErrInput, "compose", "validate", "output path required", nil)
	case in.Duration <= 0 || math.IsNaN(in.Duration):
		return services.Wrap(services.ErrInput, "compose", "validate", fmt.Sprintf("invalid duration %v", in.Duration), nil)
	case strings.TrimSpace(in.Background) == "":
		return services.Wrap(services.ErrInput, "compose", "validate", "background track required", nil)
	case strings.TrimSpace(in.Audio) == "":
		return services.Wrap(services.ErrInput, "compose", "validate", "audio track required", nil)
	case strings.TrimSpace(in.WorkDir) == "":
		return services.Wrap(services.ErrInput, "compose", "validate", "work directory required", nil)
	case in.Spec.Canvas.Width <= 0 || in.Spec.Canvas.Height <= 0 || in.Spec.Canvas.FrameRate <= 0:
		return services.Wrap(services.ErrInput, "compose", "validate", "canvas is not configured", nil)
	}
	for i, ov := range in.Overlays {
		if ov.Image == nil {
			return services.Wrap(services.ErrInput, "compose", "validate", fmt.Sprintf("overlay %d has no image", i), nil)
		}
		if i > 0 && ov.Start < in.Overlays[i-1].Start {
			return services.Wrap(services.ErrInput, "compose", "validate", "overlays are not ordered", nil)
		}
	}
	return nil
}

func probeWritable(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func indexOf(tl timeline.Timeline, kind timeline.Kind) int {
	for i, s := range tl.Segments {
		if s.Kind == kind {
			return i
		}
	}
	return -1
}

func (p *Pipeline) encodeCore(ctx context.Context, in Input, target string) error {
	canvas := in.Spec.Canvas
	args := []string{"-i", in.Background}

	var filter string
	if len(in.Overlays) > 0 {
		listPath, err := writeOverlaySequence(in.WorkDir, in.Overlays)
		if err != nil {
			return services.Wrap(services.ErrResource, "compose", "overlays", "write caption images", err)
		}
		band := in.Overlays[0].Image.Bounds()
		y := OverlayY(in.Overlays[0].Anchor, canvas.Height, band.Dy(), in.Spec.Margin)
		args = append(args, ffmpeg.ConcatInput(listPath)...)
		filter = fmt.Sprintf("[1:v]format=rgba[cap];[0:v][cap]overlay=x=(W-w)/2:y=%d:eof_action=pass:format=auto,format=%s[v]",
			y, pixelFormat(in.Spec.Encoder))
	}
	args = append(args, "-i", in.Audio)

	if filter != "" {
		args = append(args, "-filter_complex", filter, "-map", "[v]", "-map", "2:a:0")
	} else {
		args = append(args, "-map", "0:v:0", "-map", "1:a:0")
	}
	args = append(args, "-t", ffmpeg.Seconds(in.Duration), "-r", fmt.Sprint(canvas.FrameRate))
	args = append(args, in.Spec.Encoder.VideoArgs()...)
	args = append(args, in.Spec.Encoder.AudioArgs()...)
	args = append(args, "-movflags", "+faststart", "-f", "mp4", target)

	if err := p.FFmpeg.Run(ctx, args...); err != nil {
		return services.Wrap(services.ErrEncode, "compose", "encode", "composite core segment", err)
	}
	return nil
}

func (p *Pipeline) join(ctx context.Context, workDir string, tl timeline.Timeline, target string) error {
	entries := make([]ffmpeg.ConcatEntry, 0, len(tl.Segments))
	for _, seg := range tl.Segments {
		entries = append(entries, ffmpeg.ConcatEntry{Path: seg.Path})
	}
	listPath := filepath.Join(workDir, "segments.txt")
	if err := ffmpeg.WriteConcatList(listPath, entries); err != nil {
		return services.Wrap(services.ErrResource, "compose", "join", "write segment list", err)
	}
	args := ffmpeg.ConcatInput(listPath)
	args = append(args, "-c", "copy", "-movflags", "+faststart", "-f", "mp4", target)
	if err := p.FFmpeg.Run(ctx, args...); err != nil {
		return services.Wrap(services.ErrEncode, "compose", "join", "concatenate segments", err)
	}
	return nil
}

// brandingSegment normalizes an intro or outro to the canvas and audio
// layout. Unusable assets are omitted with a warning.
func (p *Pipeline) brandingSegment(ctx context.Context, logger *slog.Logger, in Input, path, label string) (*timeline.Segment, []string) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	omit := func(err error) (*timeline.Segment, []string) {
		logging.WarnWithContext(logger, "branding asset omitted", "branding_asset_omitted",
			logging.String("segment", label),
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check branding.intro_path / branding.outro_path"),
			logging.String(logging.FieldImpact, "video is published without "+label),
		)
		return nil, []string{path}
	}
	if _, err := os.Stat(path); err != nil {
		return omit(err)
	}
	if p.Probe == nil {
		return omit(errors.New("probe not configured"))
	}
	info, err := p.Probe(ctx, path)
	if err != nil {
		return omit(err)
	}
	duration := info.DurationSeconds()
	if !info.HasVideo() || math.IsNaN(duration) || duration <= 0 {
		return omit(fmt.Errorf("%s has no playable video", filepath.Base(path)))
	}

	enc := in.Spec.Encoder
	out := filepath.Join(in.WorkDir, label+".mp4")
	args := []string{"-i", path}
	audioMap := "0:a:0"
	if !info.HasAudio() {
		args = append(args, "-f", "lavfi", "-t", ffmpeg.Seconds(duration), "-i",
			fmt.Sprintf("anullsrc=r=%d:cl=%s", sampleRate(enc), ffmpeg.ChannelLayout(enc.Channels)))
		audioMap = "1:a:0"
	}
	args = append(args, "-vf", ffmpeg.FitFilter(in.Spec.Canvas), "-map", "0:v:0", "-map", audioMap, "-t", ffmpeg.Seconds(duration))
	args = append(args, enc.VideoArgs()...)
	args = append(args, enc.AudioArgs()...)
	args = append(args, "-f", "mp4", out)
	if err := p.FFmpeg.Run(ctx, args...); err != nil {
		return omit(services.Wrap(services.ErrEncode, "compose", "branding", "normalize "+label, err))
	}
	return &timeline.Segment{Path: out, Duration: duration}, nil
}

// writeOverlaySequence saves each caption band as PNG and writes a concat
// script assigning each image its interval. Durations are differences of
// millisecond-rounded boundaries so their sum stays on the caption timeline.
// The last image is listed twice so the demuxer honours its duration.
func writeOverlaySequence(workDir string, overlays []captions.Overlay) (string, error) {
	dir := filepath.Join(workDir, "captions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	entries := make([]ffmpeg.ConcatEntry, 0, len(overlays)+1)
	for i, ov := range overlays {
		path := filepath.Join(dir, fmt.Sprintf("caption_%04d.png", i))
		if err := SavePNG(path, ov.Image); err != nil {
			return "", err
		}
		duration := roundMillis(ov.End()) - roundMillis(ov.Start)
		entries = append(entries, ffmpeg.ConcatEntry{Path: path, Duration: duration})
	}
	entries = append(entries, ffmpeg.ConcatEntry{Path: entries[len(entries)-1].Path})

	listPath := filepath.Join(workDir, "captions.txt")
	if err := ffmpeg.WriteConcatList(listPath, entries); err != nil {
		return "", err
	}
	return listPath, nil
}

func roundMillis(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}

func pixelFormat(enc ffmpeg.Encoder) string {
	if enc.PixelFormat != "" {
		return enc.PixelFormat
	}
	return "yuv420p"
}

func sampleRate(enc ffmpeg.Encoder) int {
	if enc.SampleRate > 0 {
		return enc.SampleRate
	}
	return 44100
}
