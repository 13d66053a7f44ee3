package render

import (
	"math/rand/v2"
	"time"

	"reelsmith/internal/captions"
	"reelsmith/internal/config"
	"reelsmith/internal/media/ffmpeg"
	"reelsmith/internal/request"
)

// Settings is the immutable per-request view of configuration and request
// fields that every stage reads.
type Settings struct {
	Request     request.Request
	Output      string
	Canvas      ffmpeg.Canvas
	Encoder     ffmpeg.Encoder
	Style       captions.Style
	Mode        captions.Mode
	Window      int
	ClipCount   int
	ClipSeconds float64
	MusicVolume float64
	FadeIn      float64
	FadeOut     float64
	Intro       string
	Outro       string
	Seed        uint64
	WriteSRT    bool
}

// Resolve applies configuration defaults to req, validates it, and derives
// the output path. A zero seed is replaced by one derived from now.
func Resolve(cfg *config.Config, req request.Request, now time.Time) (Settings, error) {
	req.ApplyDefaults(cfg)
	if err := req.Validate(); err != nil {
		return Settings{}, err
	}
	output, err := req.OutputPath(cfg.Paths.OutputDir, now)
	if err != nil {
		return Settings{}, err
	}
	mode, err := captions.ParseMode(req.CaptionStyle)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Request: req,
		Output:  output,
		Canvas: ffmpeg.Canvas{
			Width:     cfg.Render.Width,
			Height:    cfg.Render.Height,
			FrameRate: cfg.Render.FrameRate,
		},
		Encoder: ffmpeg.Encoder{
			VideoCodec:   cfg.Render.VideoCodec,
			Preset:       cfg.Render.Preset,
			CRF:          cfg.Render.CRF,
			PixelFormat:  cfg.Render.PixelFormat,
			AudioCodec:   cfg.Render.AudioCodec,
			AudioBitrate: cfg.Render.AudioBitrate,
			SampleRate:   cfg.Audio.SampleRate,
			Channels:     cfg.Audio.Channels,
		},
		Style: captions.Style{
			FontPath:     cfg.Captions.FontPath,
			FontSize:     float64(req.FontSize),
			Color:        req.SubtitleColor,
			ShadowColor:  cfg.Captions.ShadowColor,
			ShadowOffset: cfg.Captions.ShadowOffset,
			Anchor:       captions.Anchor(req.SubtitlePosition),
			Width:        cfg.Render.Width,
			BandHeight:   cfg.Captions.BandHeight,
			Margin:       cfg.Captions.Margin,
			Uppercase:    cfg.Captions.Uppercase,
			Language:     req.Language,
		},
		Mode:        mode,
		Window:      cfg.Captions.WindowWords,
		ClipCount:   req.ClipCount,
		ClipSeconds: cfg.Background.ClipSeconds,
		MusicVolume: cfg.MusicVolume(req.MusicVolume),
		FadeIn:      cfg.Audio.FadeInSeconds,
		FadeOut:     cfg.Audio.FadeOutSeconds,
		Seed:        req.Seed,
		WriteSRT:    cfg.Captions.WriteSRT,
	}
	if req.BrandingEnabled() {
		s.Intro = cfg.Branding.IntroPath
		s.Outro = cfg.Branding.OutroPath
	}
	if s.Seed == 0 {
		s.Seed = uint64(now.UnixNano())
	}
	return s, nil
}

// Rand returns the request's random source. The same seed always yields the
// same clip order and music choice.
func (s Settings) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
}
