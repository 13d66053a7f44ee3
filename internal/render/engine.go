package render

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reelsmith/internal/audio"
	"reelsmith/internal/background"
	"reelsmith/internal/captions"
	"reelsmith/internal/compose"
	"reelsmith/internal/config"
	"reelsmith/internal/deps"
	"reelsmith/internal/library"
	"reelsmith/internal/logging"
	"reelsmith/internal/media/ffmpeg"
	"reelsmith/internal/media/ffprobe"
	"reelsmith/internal/narration"
	"reelsmith/internal/preflight"
	"reelsmith/internal/request"
	"reelsmith/internal/services"
	"reelsmith/internal/staging"
)

// lockRetry is how often a render waits on another render of the same output.
const lockRetry = 250 * time.Millisecond

// Result describes a finished render.
type Result struct {
	Output    string
	Subtitles string
	Duration  float64
	RequestID string
	Seed      uint64
	// Degraded lists the absorbed failures that changed the output.
	Degraded     []string
	SkippedClips []string
}

// Engine runs render requests end to end. It is safe to reuse across
// sequential requests; each request gets its own work directory.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	ffmpeg     ffmpeg.Runner
	probe      ffprobe.ProbeFunc
	repo       library.Repository
	synth      narration.Synthesizer
	now        func() time.Time
	skipChecks bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRunner replaces the ffmpeg runner.
func WithRunner(runner ffmpeg.Runner) Option {
	return func(e *Engine) { e.ffmpeg = runner }
}

// WithProbe replaces the ffprobe lookup.
func WithProbe(probe ffprobe.ProbeFunc) Option {
	return func(e *Engine) { e.probe = probe }
}

// WithRepository sets where background clips and music come from.
func WithRepository(repo library.Repository) Option {
	return func(e *Engine) { e.repo = repo }
}

// WithSynthesizer replaces the narration source. By default the request's
// narration file is used as-is.
func WithSynthesizer(s narration.Synthesizer) Option {
	return func(e *Engine) { e.synth = s }
}

// WithClock overrides the time source used for seeds and auto filenames.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithoutBinaryCheck skips the ffmpeg/ffprobe PATH lookup. Tests that inject
// runners use it.
func WithoutBinaryCheck() Option {
	return func(e *Engine) { e.skipChecks = true }
}

// NewEngine builds an engine from configuration.
func NewEngine(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	e := &Engine{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "render"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ffmpeg == nil {
		e.ffmpeg = ffmpeg.NewCommand(cfg.FFmpegBinary(), logger)
	}
	if e.probe == nil {
		e.probe = ffprobe.Binary(cfg.FFprobeBinary())
	}
	if e.repo == nil {
		e.repo = library.Dir{Root: cfg.Paths.AssetDir}
	}
	return e
}

// Render produces one video for req. The output path is either fully written
// or untouched; the returned error carries a services marker naming the kind.
func (e *Engine) Render(ctx context.Context, req request.Request) (Result, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	result := Result{RequestID: requestID}
	logger := logging.WithContext(ctx, e.logger)

	settings, err := Resolve(e.cfg, req, e.now())
	if err != nil {
		return result, err
	}
	result.Seed = settings.Seed
	logger.Info("render started",
		logging.String("topic", settings.Request.Topic),
		logging.String("output", settings.Output),
		logging.Any("seed", settings.Seed),
		logging.String(logging.FieldEventType, "render_start"),
	)

	if err := e.prepare(ctx, logger); err != nil {
		return result, err
	}

	if err := os.MkdirAll(filepath.Dir(settings.Output), 0o755); err != nil {
		return result, services.Wrap(services.ErrResource, "render", "prepare", "create output directory", err)
	}
	lockPath := staging.LockPath(e.cfg.Paths.WorkDir, settings.Output)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return result, services.Wrap(services.ErrResource, "render", "lock", "create lock directory", err)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil || !locked {
		return result, services.Wrap(services.ErrResource, "render", "lock", "acquire output lock", err)
	}
	defer func() { _ = lock.Unlock() }()

	workDir := filepath.Join(e.cfg.Paths.WorkDir, requestID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrResource, "render", "prepare", "create work directory", err)
	}
	if !e.cfg.Workspace.KeepWorkDir {
		defer func() { _ = os.RemoveAll(workDir) }()
	}

	start := time.Now()
	out, err := e.run(ctx, settings, workDir, &result)
	if err != nil {
		logging.ErrorWithContext(logger, "render failed", "render_failed",
			logging.String("kind", services.Kind(err)),
			logging.Error(err),
		)
		return result, err
	}
	result.Output = out.Output
	result.Duration = out.Duration
	for _, omitted := range out.Omitted {
		result.Degraded = append(result.Degraded, "branding asset omitted: "+omitted)
	}

	if settings.WriteSRT {
		result.Subtitles = e.writeSubtitles(ctx, settings.Output, out.units)
	}

	logger.Info("render complete",
		logging.String("output", result.Output),
		logging.Seconds("duration_seconds", result.Duration),
		logging.Duration("elapsed", time.Since(start)),
		logging.Int("degraded", len(result.Degraded)),
		logging.String(logging.FieldEventType, "render_complete"),
	)
	return result, nil
}

type composed struct {
	compose.Result
	units []captions.Unit
}

func (e *Engine) run(ctx context.Context, s Settings, workDir string, result *Result) (composed, error) {
	rng := s.Rand()

	narrCtx := services.WithStage(ctx, "narration")
	track, err := e.narrate(narrCtx, s)
	if err != nil {
		return composed{}, err
	}
	e.noteLength(narrCtx, s, track.Duration)

	capCtx := services.WithStage(ctx, "captions")
	units, overlays, renderer, err := e.captions(capCtx, s, track.Duration)
	if err != nil {
		return composed{}, err
	}
	if renderer.FellBack() {
		result.Degraded = append(result.Degraded, "caption font fallback")
	}

	bgCtx := services.WithStage(ctx, "background")
	pool, err := e.repo.Search(bgCtx, s.Request.Topic, library.KindVideo)
	if err != nil {
		return composed{}, services.Wrap(services.ErrResource, "background", "search", "query clip repository", err)
	}
	assembler := background.NewAssembler(e.ffmpeg, e.probe, s.Canvas, s.Encoder, e.logger)
	bg, err := assembler.Assemble(bgCtx, background.Params{
		Pool:        pool,
		Target:      track.Duration,
		MaxClips:    s.ClipCount,
		ClipSeconds: s.ClipSeconds,
		Rand:        rng,
		WorkDir:     workDir,
	})
	if err != nil {
		return composed{}, err
	}
	result.SkippedClips = bg.Skipped
	if len(bg.Skipped) > 0 {
		result.Degraded = append(result.Degraded, fmt.Sprintf("%d background clips skipped", len(bg.Skipped)))
	}

	mixPath, musicOK, err := e.mix(services.WithStage(ctx, "audio"), s, track, rng, workDir)
	if err != nil {
		return composed{}, err
	}
	if !musicOK {
		result.Degraded = append(result.Degraded, "music unavailable")
	}

	pipeline := compose.NewPipeline(e.ffmpeg, e.probe, e.logger)
	out, err := pipeline.Compose(services.WithStage(ctx, "compose"), compose.Input{
		Spec:       compose.Spec{Canvas: s.Canvas, Encoder: s.Encoder, Output: s.Output, Margin: s.Style.Margin},
		Duration:   track.Duration,
		Background: bg.Path,
		Audio:      mixPath,
		Overlays:   overlays,
		Intro:      s.Intro,
		Outro:      s.Outro,
		WorkDir:    workDir,
	})
	if err != nil {
		return composed{}, err
	}
	return composed{Result: out, units: units}, nil
}

func (e *Engine) prepare(ctx context.Context, logger *slog.Logger) error {
	if err := e.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrResource, "preflight", "directories", "create configured directories", err)
	}
	if e.cfg.Workspace.StaleHours > 0 {
		maxAge := time.Duration(e.cfg.Workspace.StaleHours) * time.Hour
		staging.CleanStale(ctx, e.cfg.Paths.WorkDir, maxAge, logger)
		staging.CleanPartials(ctx, e.cfg.Paths.OutputDir, maxAge, logger)
	}
	if !e.skipChecks {
		if err := deps.Require(deps.MediaTools(e.cfg.FFmpegBinary(), e.cfg.FFprobeBinary())); err != nil {
			return err
		}
	}
	return preflight.Err(preflight.RunAll(e.cfg))
}

func (e *Engine) narrate(ctx context.Context, s Settings) (narration.Track, error) {
	synth := e.synth
	if synth == nil {
		synth = narration.FileSynthesizer{Path: s.Request.Narration, Probe: e.probe}
	}
	track, err := synth.Synthesize(ctx, s.Request.Script, s.Request.VoiceChoice, s.Request.VoiceSpeed)
	if err != nil {
		return narration.Track{}, err
	}
	logging.WithContext(ctx, e.logger).Info("narration measured",
		logging.String("path", track.Path),
		logging.Seconds("duration_seconds", track.Duration),
	)
	return track, nil
}

// noteLength logs when the requested length disagrees with the narration.
// The narration always wins.
func (e *Engine) noteLength(ctx context.Context, s Settings, duration float64) {
	if s.Request.LengthSec <= 0 {
		return
	}
	if diff := duration - float64(s.Request.LengthSec); diff > 1 || diff < -1 {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "narration length differs from requested length", "narration_length_mismatch",
			logging.Int("length_sec", s.Request.LengthSec),
			logging.Seconds("narration_seconds", duration),
			logging.String(logging.FieldErrorHint, "regenerate the narration or adjust length_sec"),
			logging.String(logging.FieldImpact, "video runs for the narration length"),
		)
	}
}

func (e *Engine) captions(ctx context.Context, s Settings, duration float64) ([]captions.Unit, []captions.Overlay, *captions.Renderer, error) {
	units, err := captions.Segment(s.Request.Script, duration, s.Mode, s.Window)
	if err != nil {
		return nil, nil, nil, err
	}
	renderer, err := captions.NewRenderer(s.Style, logging.WithContext(ctx, e.logger))
	if err != nil {
		return nil, nil, nil, err
	}
	overlays, err := renderer.RenderAll(units)
	if err != nil {
		return nil, nil, nil, err
	}
	logging.WithContext(ctx, e.logger).Info("captions rendered",
		logging.Int("units", len(units)),
		logging.String("mode", string(s.Mode)),
	)
	return units, overlays, renderer, nil
}

// mix writes the final soundtrack. A music track that cannot be found or
// decoded is dropped with a warning; musicOK is false only in that case.
func (e *Engine) mix(ctx context.Context, s Settings, track narration.Track, rng *rand.Rand, workDir string) (string, bool, error) {
	logger := logging.WithContext(ctx, e.logger)
	rate, channels := s.Encoder.SampleRate, s.Encoder.Channels

	voice, err := audio.Load(ctx, e.ffmpeg, track.Path, filepath.Join(workDir, "narration.wav"), rate, channels)
	if err != nil {
		return "", false, services.Wrap(services.ErrInput, "audio", "decode", "decode narration", err)
	}

	musicOK := true
	var music *audio.Music
	source, err := e.pickMusic(ctx, s, rng)
	switch {
	case err != nil:
		musicOK = false
		warnMusic(logger, "", err)
	case source != "":
		buf, loadErr := audio.Load(ctx, e.ffmpeg, source, filepath.Join(workDir, "music.wav"), rate, channels)
		if loadErr != nil {
			if ctx.Err() != nil {
				return "", false, ctx.Err()
			}
			musicOK = false
			warnMusic(logger, source, loadErr)
			break
		}
		music = &audio.Music{Buffer: buf, Volume: s.MusicVolume, FadeIn: s.FadeIn, FadeOut: s.FadeOut}
		logger.Info("music selected", logging.String("path", source), logging.Float64("volume", s.MusicVolume))
	}

	mixed, err := audio.Mix(voice, music, track.Duration)
	if err != nil {
		return "", false, err
	}
	out := filepath.Join(workDir, "mix.wav")
	if err := audio.Save(out, mixed); err != nil {
		return "", false, services.Wrap(services.ErrResource, "audio", "save", "write mixed soundtrack", err)
	}
	return out, musicOK, nil
}

// pickMusic returns the explicit music path, or a seeded random track from
// the repository. An empty result means the render has no music.
func (e *Engine) pickMusic(ctx context.Context, s Settings, rng *rand.Rand) (string, error) {
	if explicit := strings.TrimSpace(s.Request.Music); explicit != "" {
		expanded, err := config.ExpandPath(explicit)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", err
		}
		return expanded, nil
	}
	tracks, err := e.repo.Search(ctx, s.Request.Topic, library.KindMusic)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", nil
	}
	return tracks[rng.IntN(len(tracks))], nil
}

func warnMusic(logger *slog.Logger, source string, err error) {
	logging.WarnWithContext(logger, "background music unavailable; mixing narration only", "music_unavailable",
		logging.String("music", source),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the music file or the asset_dir music folder"),
		logging.String(logging.FieldImpact, "video has narration without music"),
	)
}

func (e *Engine) writeSubtitles(ctx context.Context, output string, units []captions.Unit) string {
	path := strings.TrimSuffix(output, filepath.Ext(output)) + ".srt"
	if err := captions.WriteSRT(path, units); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "subtitle sidecar not written", "srt_write_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check output_dir permissions"),
			logging.String(logging.FieldImpact, "video has burned-in captions only"),
		)
		return ""
	}
	return path
}
