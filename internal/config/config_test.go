package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsmith/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "reelsmith", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "Videos", "reelsmith") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Render.Width != 1080 || cfg.Render.Height != 1920 {
		t.Fatalf("unexpected canvas: %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.FrameRate != 24 {
		t.Fatalf("unexpected frame rate: %d", cfg.Render.FrameRate)
	}
	if cfg.Background.ClipSeconds != 4 {
		t.Fatalf("unexpected clip seconds: %v", cfg.Background.ClipSeconds)
	}
	if cfg.Captions.BandHeight != 200 {
		t.Fatalf("unexpected band height: %d", cfg.Captions.BandHeight)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
work_dir = "~/scratch"
output_dir = "~/out"

[render]
preset = " FAST "
crf = 20

[captions]
position = "Top"
window_words = 0

[logging]
format = "JSON"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected explicit config to be found, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, "scratch") {
		t.Fatalf("unexpected work dir: %q", cfg.Paths.WorkDir)
	}
	if cfg.Render.Preset != "fast" {
		t.Fatalf("expected preset normalized to fast, got %q", cfg.Render.Preset)
	}
	if cfg.Render.CRF != 20 {
		t.Fatalf("unexpected crf: %d", cfg.Render.CRF)
	}
	if cfg.Captions.Position != "top" {
		t.Fatalf("expected position top, got %q", cfg.Captions.Position)
	}
	if cfg.Captions.WindowWords != 6 {
		t.Fatalf("expected window words default, got %d", cfg.Captions.WindowWords)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[render]\nframerate = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"odd width":      func(c *config.Config) { c.Render.Width = 1081 },
		"zero fps":       func(c *config.Config) { c.Render.FrameRate = 0 },
		"crf range":      func(c *config.Config) { c.Render.CRF = 60 },
		"clip seconds":   func(c *config.Config) { c.Background.ClipSeconds = 0 },
		"volume":         func(c *config.Config) { c.Audio.VolumeHigh = 1.5 },
		"fade":           func(c *config.Config) { c.Audio.FadeInSeconds = -1 },
		"position":       func(c *config.Config) { c.Captions.Position = "left" },
		"band height":    func(c *config.Config) { c.Captions.BandHeight = 0 },
		"stale hours":    func(c *config.Config) { c.Workspace.StaleHours = -2 },
		"sample rate":    func(c *config.Config) { c.Audio.SampleRate = 0 },
		"shadow offset":  func(c *config.Config) { c.Captions.ShadowOffset = -1 },
		"caption margin": func(c *config.Config) { c.Captions.Margin = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}

func TestToolsFallBackToEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REELSMITH_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	configPath := filepath.Join(t.TempDir(), "missing.toml")

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing config")
	}
	if got := cfg.FFmpegBinary(); got != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("FFmpegBinary = %q", got)
	}
	if got := cfg.FFprobeBinary(); got != "ffprobe" {
		t.Fatalf("FFprobeBinary = %q", got)
	}
}

func TestMusicVolumePresets(t *testing.T) {
	cfg := config.Default()
	cases := map[string]float64{"low": 0.15, "medium": 0.25, "HIGH": 0.40, "": 0.25, "loud": 0.25}
	for level, want := range cases {
		if got := cfg.MusicVolume(level); got != want {
			t.Fatalf("MusicVolume(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[captions]") {
		t.Fatalf("sample missing captions section")
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Audio.VolumeLow != 0.15 {
		t.Fatalf("unexpected low volume: %v", cfg.Audio.VolumeLow)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LibraryPath = filepath.Join(base, "db", "library.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.OutputDir, cfg.Paths.LogDir, filepath.Join(base, "db")} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
