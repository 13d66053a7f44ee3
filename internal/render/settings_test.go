package render

import (
	"path/filepath"
	"testing"
	"time"

	"reelsmith/internal/captions"
	"reelsmith/internal/request"
	"reelsmith/internal/testsupport"
)

func TestResolveAppliesConfigAndRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	now := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	req := request.Request{
		Topic:            "Deep Sea",
		Language:         "de",
		SubtitlePosition: "top",
		MusicVolume:      "high",
		Branding:         "yes",
		FontSize:         64,
	}

	s, err := Resolve(cfg, req, now)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if want := filepath.Join(cfg.Paths.OutputDir, "deep_sea_de_20260102_0304.mp4"); s.Output != want {
		t.Fatalf("output = %q, want %q", s.Output, want)
	}
	if s.Style.Anchor != captions.AnchorTop || s.Style.FontSize != 64 || s.Style.Language != "de" {
		t.Fatalf("unexpected style %+v", s.Style)
	}
	if s.MusicVolume != cfg.Audio.VolumeHigh {
		t.Fatalf("music volume = %v, want %v", s.MusicVolume, cfg.Audio.VolumeHigh)
	}
	if s.Intro != cfg.Branding.IntroPath || s.Outro != cfg.Branding.OutroPath {
		t.Fatalf("expected branding paths, got %q %q", s.Intro, s.Outro)
	}
	if s.Mode != captions.ModeSentence || s.ClipCount != cfg.Background.ClipCount {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if s.Seed != uint64(now.UnixNano()) {
		t.Fatalf("expected time-derived seed, got %d", s.Seed)
	}
}

func TestResolveWithoutBranding(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s, err := Resolve(cfg, request.Request{Topic: "x", Seed: 7}, time.Now())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if s.Intro != "" || s.Outro != "" {
		t.Fatalf("expected no branding, got %q %q", s.Intro, s.Outro)
	}
	if s.Seed != 7 {
		t.Fatalf("expected explicit seed, got %d", s.Seed)
	}
}

func TestSettingsRandIsDeterministic(t *testing.T) {
	s := Settings{Seed: 99}
	a, b := s.Rand(), s.Rand()
	for i := 0; i < 10; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatal("same seed produced different streams")
		}
	}
}

func TestResolveRejectsInvalidRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := Resolve(cfg, request.Request{}, time.Now()); err == nil {
		t.Fatal("expected missing topic to fail")
	}
}
