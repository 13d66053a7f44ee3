package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir     string `toml:"work_dir"`
	OutputDir   string `toml:"output_dir"`
	LogDir      string `toml:"log_dir"`
	LibraryPath string `toml:"library_path"`
	AssetDir    string `toml:"asset_dir"`
}

// Render contains the encoder settings every request inherits.
type Render struct {
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	FrameRate    int    `toml:"frame_rate"`
	VideoCodec   string `toml:"video_codec"`
	Preset       string `toml:"preset"`
	CRF          int    `toml:"crf"`
	PixelFormat  string `toml:"pixel_format"`
	AudioCodec   string `toml:"audio_codec"`
	AudioBitrate string `toml:"audio_bitrate"`
}

// Background contains stock footage assembly settings.
type Background struct {
	ClipCount   int     `toml:"clip_count"`
	ClipSeconds float64 `toml:"clip_seconds"`
}

// Audio contains mixing settings.
type Audio struct {
	SampleRate     int     `toml:"sample_rate"`
	Channels       int     `toml:"channels"`
	FadeInSeconds  float64 `toml:"fade_in_seconds"`
	FadeOutSeconds float64 `toml:"fade_out_seconds"`
	VolumeLow      float64 `toml:"volume_low"`
	VolumeMedium   float64 `toml:"volume_medium"`
	VolumeHigh     float64 `toml:"volume_high"`
}

// Captions contains caption layout defaults. Request values override
// font size, colour, and position.
type Captions struct {
	FontPath     string `toml:"font_path"`
	FontSize     int    `toml:"font_size"`
	Color        string `toml:"color"`
	ShadowColor  string `toml:"shadow_color"`
	ShadowOffset int    `toml:"shadow_offset"`
	Position     string `toml:"position"`
	BandHeight   int    `toml:"band_height"`
	Margin       int    `toml:"margin"`
	WindowWords  int    `toml:"window_words"`
	Uppercase    bool   `toml:"uppercase"`
	WriteSRT     bool   `toml:"write_srt"`
}

// Branding contains the intro/outro assets used when a request asks for branding.
type Branding struct {
	IntroPath string `toml:"intro_path"`
	OutroPath string `toml:"outro_path"`
}

// Tools names the external media binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Workspace controls per-request scratch directories.
type Workspace struct {
	KeepWorkDir bool  `toml:"keep_work_dir"`
	StaleHours  int   `toml:"stale_hours"`
	MinFreeMiB  int64 `toml:"min_free_mib"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelsmith.
//
// Configuration sections by subsystem:
//   - Paths: scratch, output, log, and asset catalog locations
//   - Render: canvas, frame rate, and encoder settings
//   - Background: clip sampling and trim length
//   - Audio: mix format, fades, and music volume presets
//   - Captions: font and caption band layout
//   - Branding: intro/outro assets
//   - Tools: ffmpeg/ffprobe binaries
//   - Workspace: scratch retention and free-space floor
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Render     Render     `toml:"render"`
	Background Background `toml:"background"`
	Audio      Audio      `toml:"audio"`
	Captions   Captions   `toml:"captions"`
	Branding   Branding   `toml:"branding"`
	Tools      Tools      `toml:"tools"`
	Workspace  Workspace  `toml:"workspace"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelsmith/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelsmith.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a render needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := filepath.Dir(c.Paths.LibraryPath); strings.TrimSpace(c.Paths.LibraryPath) != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create library directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for decoding and encoding.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFmpeg); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFprobe); bin != "" {
		return bin
	}
	return "ffprobe"
}

// MusicVolume maps a request volume level to its mix gain. Unknown levels use
// the medium preset.
func (c *Config) MusicVolume(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return c.Audio.VolumeLow
	case "high":
		return c.Audio.VolumeHigh
	default:
		return c.Audio.VolumeMedium
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
