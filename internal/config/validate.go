package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateBackground(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateWorkspace(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if err := ensurePositiveMap(map[string]int{
		"render.width":      c.Render.Width,
		"render.height":     c.Render.Height,
		"render.frame_rate": c.Render.FrameRate,
	}); err != nil {
		return err
	}
	if c.Render.Width%2 != 0 || c.Render.Height%2 != 0 {
		return errors.New("render.width and render.height must be even for yuv420p output")
	}
	if c.Render.CRF < 0 || c.Render.CRF > 51 {
		return errors.New("render.crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validateBackground() error {
	if c.Background.ClipCount <= 0 {
		return errors.New("background.clip_count must be positive")
	}
	if c.Background.ClipSeconds <= 0 {
		return errors.New("background.clip_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if err := ensurePositiveMap(map[string]int{
		"audio.sample_rate": c.Audio.SampleRate,
		"audio.channels":    c.Audio.Channels,
	}); err != nil {
		return err
	}
	if c.Audio.FadeInSeconds < 0 || c.Audio.FadeOutSeconds < 0 {
		return errors.New("audio fade durations must be >= 0")
	}
	for key, value := range map[string]float64{
		"audio.volume_low":    c.Audio.VolumeLow,
		"audio.volume_medium": c.Audio.VolumeMedium,
		"audio.volume_high":   c.Audio.VolumeHigh,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}
	return nil
}

func (c *Config) validateCaptions() error {
	switch c.Captions.Position {
	case "top", "center", "bottom":
	default:
		return fmt.Errorf("captions.position must be top, center, or bottom (got %q)", c.Captions.Position)
	}
	if err := ensurePositiveMap(map[string]int{
		"captions.font_size":   c.Captions.FontSize,
		"captions.band_height": c.Captions.BandHeight,
	}); err != nil {
		return err
	}
	if c.Captions.ShadowOffset < 0 {
		return errors.New("captions.shadow_offset must be >= 0")
	}
	if c.Captions.Margin < 0 {
		return errors.New("captions.margin must be >= 0")
	}
	return nil
}

func (c *Config) validateWorkspace() error {
	if c.Workspace.StaleHours < 0 {
		return errors.New("workspace.stale_hours must be >= 0")
	}
	if c.Workspace.MinFreeMiB < 0 {
		return errors.New("workspace.min_free_mib must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
