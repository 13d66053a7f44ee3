package background

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"reelsmith/internal/logging"
	"reelsmith/internal/media/ffmpeg"
	"reelsmith/internal/media/ffprobe"
	"reelsmith/internal/services"
	"reelsmith/internal/timeline"
)

// DefaultClipSeconds is the per-clip trim length when none is configured.
const DefaultClipSeconds = 4.0

// Clip is one accepted stock clip.
type Clip struct {
	Source string
	Length float64
	Trim   float64
	// Path is the normalized file; empty in a plan.
	Path string
}

// Track is the rendered background video fitted to the narration length.
type Track struct {
	Path     string
	Duration float64
	Clips    []Clip
	Pieces   []timeline.Piece
	Skipped  []string
}

// Plan is the clip selection and loop layout without any encoding.
type Plan struct {
	Clips   []Clip
	Pieces  []timeline.Piece
	Repeats int
	Skipped []string
}

// Params describes one assembly.
type Params struct {
	Pool        []string
	Target      float64
	MaxClips    int
	ClipSeconds float64
	Rand        *rand.Rand
	WorkDir     string
}

// Assembler selects, normalizes, and concatenates stock footage.
type Assembler struct {
	FFmpeg  ffmpeg.Runner
	Probe   ffprobe.ProbeFunc
	Canvas  ffmpeg.Canvas
	Encoder ffmpeg.Encoder
	Logger  *slog.Logger
}

// NewAssembler constructs an Assembler with a component logger.
func NewAssembler(runner ffmpeg.Runner, probe ffprobe.ProbeFunc, canvas ffmpeg.Canvas, encoder ffmpeg.Encoder, logger *slog.Logger) *Assembler {
	return &Assembler{
		FFmpeg:  runner,
		Probe:   probe,
		Canvas:  canvas,
		Encoder: encoder,
		Logger:  logging.NewComponentLogger(logger, "background"),
	}
}

// Plan probes the pool and lays out the loop without writing any media.
func (a *Assembler) Plan(ctx context.Context, p Params) (Plan, error) {
	clips, skipped, err := a.selectClips(ctx, p, nil)
	if err != nil {
		return Plan{}, err
	}
	pieces, err := layout(clips, p.Target, false)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Clips:   clips,
		Pieces:  pieces,
		Repeats: timeline.Repeats(totalTrim(clips), p.Target),
		Skipped: skipped,
	}, nil
}

// Assemble produces a background video of exactly p.Target seconds. Unreadable
// candidates are skipped; an empty pool or a pool with no usable clip fails
// with ErrEmptyPool.
func (a *Assembler) Assemble(ctx context.Context, p Params) (Track, error) {
	if a.FFmpeg == nil {
		return Track{}, services.Wrap(services.ErrConfiguration, "background", "assemble", "ffmpeg runner not configured", nil)
	}
	clipDir := filepath.Join(p.WorkDir, "clips")
	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		return Track{}, services.Wrap(services.ErrResource, "background", "assemble", "create clip directory", err)
	}

	normalize := func(ctx context.Context, index int, clip Clip) (string, error) {
		out := filepath.Join(clipDir, fmt.Sprintf("clip_%03d.mp4", index))
		args := []string{"-i", clip.Source, "-t", ffmpeg.Seconds(clip.Trim), "-vf", ffmpeg.FillFilter(a.Canvas), "-an"}
		args = append(args, a.Encoder.VideoArgs()...)
		args = append(args, out)
		if err := a.FFmpeg.Run(ctx, args...); err != nil {
			return "", err
		}
		return out, nil
	}

	clips, skipped, err := a.selectClips(ctx, p, normalize)
	if err != nil {
		return Track{}, err
	}
	pieces, err := layout(clips, p.Target, true)
	if err != nil {
		return Track{}, err
	}

	entries := make([]ffmpeg.ConcatEntry, 0, len(pieces))
	for _, piece := range pieces {
		entries = append(entries, ffmpeg.ConcatEntry{Path: piece.Source, InPoint: piece.Start, OutPoint: piece.End()})
	}
	listPath := filepath.Join(p.WorkDir, "background.txt")
	if err := ffmpeg.WriteConcatList(listPath, entries); err != nil {
		return Track{}, services.Wrap(services.ErrResource, "background", "concat", "write concat list", err)
	}

	out := filepath.Join(p.WorkDir, "background.mp4")
	args := ffmpeg.ConcatInput(listPath)
	args = append(args, "-t", ffmpeg.Seconds(p.Target), "-vf", fmt.Sprintf("fps=%d", a.Canvas.FrameRate), "-an")
	args = append(args, a.Encoder.VideoArgs()...)
	args = append(args, out)
	if err := a.FFmpeg.Run(ctx, args...); err != nil {
		return Track{}, services.Wrap(services.ErrEncode, "background", "concat", "render background track", err)
	}

	a.Logger.Info("background track assembled",
		logging.Int("clips", len(clips)),
		logging.Int("pieces", len(pieces)),
		logging.Int("skipped", len(skipped)),
		logging.Seconds("duration_seconds", p.Target),
	)
	return Track{Path: out, Duration: p.Target, Clips: clips, Pieces: pieces, Skipped: skipped}, nil
}

type normalizeFunc func(ctx context.Context, index int, clip Clip) (string, error)

func (a *Assembler) selectClips(ctx context.Context, p Params, normalize normalizeFunc) ([]Clip, []string, error) {
	if p.Target <= 0 || math.IsNaN(p.Target) {
		return nil, nil, services.Wrap(services.ErrInput, "background", "select", fmt.Sprintf("invalid target duration %v", p.Target), nil)
	}
	if len(p.Pool) == 0 {
		return nil, nil, services.Wrap(services.ErrEmptyPool, "background", "select", "no background clips available", nil)
	}
	if a.Probe == nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "background", "select", "probe not configured", nil)
	}

	limit := p.MaxClips
	if limit <= 0 || limit > len(p.Pool) {
		limit = len(p.Pool)
	}
	trimTo := p.ClipSeconds
	if trimTo <= 0 {
		trimTo = DefaultClipSeconds
	}

	candidates := append([]string(nil), p.Pool...)
	if p.Rand != nil {
		p.Rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	logger := logging.WithContext(ctx, a.Logger)
	var clips []Clip
	var skipped []string
	for _, source := range candidates {
		if len(clips) == limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		length, err := a.measure(ctx, source)
		if err != nil {
			skipped = append(skipped, source)
			warnSkip(logger, source, err)
			continue
		}
		clip := Clip{Source: source, Length: length, Trim: math.Min(trimTo, length)}
		if normalize != nil {
			path, err := normalize(ctx, len(clips), clip)
			if err != nil {
				if ctx.Err() != nil {
					return nil, nil, ctx.Err()
				}
				skipped = append(skipped, source)
				warnSkip(logger, source, services.Wrap(services.ErrClipRead, "background", "normalize", "clip could not be normalized", err))
				continue
			}
			clip.Path = path
		}
		clips = append(clips, clip)
	}

	if len(clips) == 0 {
		return nil, skipped, services.Wrap(services.ErrEmptyPool, "background", "select",
			fmt.Sprintf("none of %d candidate clips were readable", len(p.Pool)), nil)
	}
	return clips, skipped, nil
}

func (a *Assembler) measure(ctx context.Context, source string) (float64, error) {
	result, err := a.Probe(ctx, source)
	if err != nil {
		return 0, services.Wrap(services.ErrClipRead, "background", "probe", "ffprobe failed", err)
	}
	if !result.HasVideo() {
		return 0, services.Wrap(services.ErrClipRead, "background", "probe", "no video stream", nil)
	}
	length := result.DurationSeconds()
	if math.IsNaN(length) || length <= 0 {
		return 0, services.Wrap(services.ErrClipRead, "background", "probe", fmt.Sprintf("clip length %v is not positive", length), nil)
	}
	return length, nil
}

func layout(clips []Clip, target float64, normalized bool) ([]timeline.Piece, error) {
	pieces := make([]timeline.Piece, 0, len(clips))
	for _, clip := range clips {
		source := clip.Source
		if normalized {
			source = clip.Path
		}
		pieces = append(pieces, timeline.Piece{Source: source, Duration: clip.Trim})
	}
	plan, err := timeline.LoopAndTrim(pieces, target)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "background", "layout", "loop and trim", err)
	}
	return plan, nil
}

func totalTrim(clips []Clip) float64 {
	var sum float64
	for _, c := range clips {
		sum += c.Trim
	}
	return sum
}

func warnSkip(logger *slog.Logger, source string, err error) {
	logging.WarnWithContext(logger, "skipping background clip", "clip_skipped",
		logging.String("clip", source),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "re-download or remove the clip from the library"),
		logging.String(logging.FieldImpact, "background uses fewer distinct clips"),
	)
}
