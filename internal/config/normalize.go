package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeCaptions()
	if err := c.normalizeBranding(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LibraryPath, err = expandPath(strings.TrimSpace(c.Paths.LibraryPath)); err != nil {
		return fmt.Errorf("paths.library_path: %w", err)
	}
	if c.Paths.AssetDir, err = expandPath(strings.TrimSpace(c.Paths.AssetDir)); err != nil {
		return fmt.Errorf("paths.asset_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.VideoCodec = strings.TrimSpace(c.Render.VideoCodec)
	if c.Render.VideoCodec == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	c.Render.Preset = strings.ToLower(strings.TrimSpace(c.Render.Preset))
	if c.Render.Preset == "" {
		c.Render.Preset = defaultPreset
	}
	c.Render.PixelFormat = strings.TrimSpace(c.Render.PixelFormat)
	if c.Render.PixelFormat == "" {
		c.Render.PixelFormat = defaultPixelFormat
	}
	c.Render.AudioCodec = strings.TrimSpace(c.Render.AudioCodec)
	if c.Render.AudioCodec == "" {
		c.Render.AudioCodec = defaultAudioCodec
	}
	c.Render.AudioBitrate = strings.TrimSpace(c.Render.AudioBitrate)
	if c.Render.AudioBitrate == "" {
		c.Render.AudioBitrate = defaultAudioBitrate
	}
}

func (c *Config) normalizeCaptions() {
	c.Captions.Position = strings.ToLower(strings.TrimSpace(c.Captions.Position))
	if c.Captions.Position == "" {
		c.Captions.Position = defaultCaptionPosition
	}
	c.Captions.Color = strings.TrimSpace(c.Captions.Color)
	if c.Captions.Color == "" {
		c.Captions.Color = defaultCaptionColor
	}
	c.Captions.ShadowColor = strings.TrimSpace(c.Captions.ShadowColor)
	if c.Captions.ShadowColor == "" {
		c.Captions.ShadowColor = defaultShadowColor
	}
	if c.Captions.WindowWords <= 0 {
		c.Captions.WindowWords = defaultWindowWords
	}
	// A missing font is not a config error; the renderer falls back at runtime.
	if path := strings.TrimSpace(c.Captions.FontPath); path != "" {
		if expanded, err := expandPath(path); err == nil {
			c.Captions.FontPath = expanded
		}
	}
}

func (c *Config) normalizeBranding() error {
	var err error
	if c.Branding.IntroPath, err = expandPath(strings.TrimSpace(c.Branding.IntroPath)); err != nil {
		return fmt.Errorf("branding.intro_path: %w", err)
	}
	if c.Branding.OutroPath, err = expandPath(strings.TrimSpace(c.Branding.OutroPath)); err != nil {
		return fmt.Errorf("branding.outro_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		if value, ok := os.LookupEnv("REELSMITH_FFMPEG"); ok {
			c.Tools.FFmpeg = strings.TrimSpace(value)
		}
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		if value, ok := os.LookupEnv("REELSMITH_FFPROBE"); ok {
			c.Tools.FFprobe = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
