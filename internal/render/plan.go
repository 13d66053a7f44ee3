package render

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"reelsmith/internal/background"
	"reelsmith/internal/captions"
	"reelsmith/internal/compose"
	"reelsmith/internal/library"
	"reelsmith/internal/narration"
	"reelsmith/internal/request"
	"reelsmith/internal/services"
	"reelsmith/internal/timeline"
)

// Plan is a dry run of a request: everything Render decides before encoding.
type Plan struct {
	Settings   Settings
	Narration  narration.Track
	Units      []captions.Unit
	Background background.Plan
	Music      string
}

// Plan resolves the request, measures the narration, segments the script,
// and lays out the background loop without writing any media.
func (e *Engine) Plan(ctx context.Context, req request.Request) (Plan, error) {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	settings, err := Resolve(e.cfg, req, e.now())
	if err != nil {
		return Plan{}, err
	}
	rng := settings.Rand()

	track, err := e.narrate(services.WithStage(ctx, "narration"), settings)
	if err != nil {
		return Plan{}, err
	}
	units, err := captions.Segment(settings.Request.Script, track.Duration, settings.Mode, settings.Window)
	if err != nil {
		return Plan{}, err
	}

	bgCtx := services.WithStage(ctx, "background")
	pool, err := e.repo.Search(bgCtx, settings.Request.Topic, library.KindVideo)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrResource, "background", "search", "query clip repository", err)
	}
	assembler := background.NewAssembler(e.ffmpeg, e.probe, settings.Canvas, settings.Encoder, e.logger)
	bg, err := assembler.Plan(bgCtx, background.Params{
		Pool:        pool,
		Target:      track.Duration,
		MaxClips:    settings.ClipCount,
		ClipSeconds: settings.ClipSeconds,
		Rand:        rng,
	})
	if err != nil {
		return Plan{}, err
	}

	music, err := e.pickMusic(ctx, settings, rng)
	if err != nil {
		warnMusic(e.logger, settings.Request.Music, err)
		music = ""
	}

	return Plan{
		Settings:   settings,
		Narration:  track,
		Units:      units,
		Background: bg,
		Music:      music,
	}, nil
}

// Preview writes a PNG still of the frame at time t: the planned background
// clip under the caption active at t. Only one frame is decoded.
func (e *Engine) Preview(ctx context.Context, req request.Request, t float64, out string) (Plan, error) {
	plan, err := e.Plan(ctx, req)
	if err != nil {
		return Plan{}, err
	}
	if t < 0 || t >= plan.Narration.Duration {
		return plan, services.Wrap(services.ErrInput, "preview", "locate", "time is outside the narration", nil)
	}
	piece, offset, ok := timeline.Locate(plan.Background.Pieces, t)
	if !ok {
		return plan, services.Wrap(services.ErrInput, "preview", "locate", "no background at requested time", nil)
	}

	renderer, err := captions.NewRenderer(plan.Settings.Style, e.logger)
	if err != nil {
		return plan, err
	}
	overlays, err := renderer.RenderAll(plan.Units)
	if err != nil {
		return plan, err
	}

	workDir := filepath.Join(e.cfg.Paths.WorkDir, "preview-"+uuid.NewString()[:8])
	defer func() { _ = os.RemoveAll(workDir) }()

	pipeline := compose.NewPipeline(e.ffmpeg, e.probe, e.logger)
	spec := compose.Spec{Canvas: plan.Settings.Canvas, Encoder: plan.Settings.Encoder, Margin: plan.Settings.Style.Margin}
	frame := compose.Frame{Path: piece.Source, Offset: offset}
	if err := pipeline.Preview(services.WithStage(ctx, "preview"), frame, overlays, t, spec, workDir, out); err != nil {
		return plan, err
	}
	return plan, nil
}
