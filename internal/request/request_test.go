package request_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelsmith/internal/config"
	"reelsmith/internal/request"
	"reelsmith/internal/services"
)

func writeRequest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write request: %v", err)
	}
	return path
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	path := writeRequest(t, `
topic: Morning Motivation
language: en
caption_style: word
music_volume: high
branding: "yes"
script: "Never give up today"
narration: voice.mp3
music: /abs/bed.mp3
seed: 42
`)
	req, err := request.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if req.Narration != filepath.Join(filepath.Dir(path), "voice.mp3") {
		t.Fatalf("narration not resolved: %q", req.Narration)
	}
	if req.Music != "/abs/bed.mp3" {
		t.Fatalf("absolute music path changed: %q", req.Music)
	}
	if req.Seed != 42 || !req.BrandingEnabled() {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeRequest(t, "topic: x\nsubtitle_font: Arial\n")
	if _, err := request.Load(path); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestApplyDefaultsUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Captions.Position = "center"
	req := request.Request{Topic: "  Stoicism "}
	req.ApplyDefaults(&cfg)

	if req.Topic != "Stoicism" || req.Language != "en" {
		t.Fatalf("unexpected topic/language %q %q", req.Topic, req.Language)
	}
	if req.SubtitlePosition != "center" || req.SubtitleColor != "white" {
		t.Fatalf("caption defaults not applied: %+v", req)
	}
	if req.MusicVolume != "medium" || req.CaptionStyle != "sentence" || req.Branding != "no" || req.FilenameMode != "auto" {
		t.Fatalf("enum defaults not applied: %+v", req)
	}
	if req.ClipCount != cfg.Background.ClipCount || req.FontSize != cfg.Captions.FontSize || req.VoiceSpeed != 1 {
		t.Fatalf("numeric defaults not applied: %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("defaulted request should validate: %v", err)
	}
}

func TestValidateReportsFieldNames(t *testing.T) {
	req := request.Request{
		SubtitlePosition: "left",
		MusicVolume:      "loud",
		FilenameMode:     "manual",
	}
	err := req.Validate()
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"topic is required", "subtitle_position must be one of", "music_volume must be one of", "custom_filename is required"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("validation message missing %q: %s", want, msg)
		}
	}
}

func TestOutputPathModes(t *testing.T) {
	now := time.Date(2026, 3, 9, 7, 5, 0, 0, time.UTC)
	dir := "/videos"

	auto := request.Request{Topic: "Morning Motivation", Language: "EN", FilenameMode: "auto"}
	got, err := auto.OutputPath(dir, now)
	if err != nil {
		t.Fatalf("OutputPath returned error: %v", err)
	}
	if got != "/videos/morning_motivation_en_20260309_0705.mp4" {
		t.Fatalf("unexpected auto name %q", got)
	}

	manual := request.Request{Topic: "x", FilenameMode: "manual", CustomFilename: "final: cut?.mp4"}
	got, err = manual.OutputPath(dir, now)
	if err != nil {
		t.Fatalf("OutputPath returned error: %v", err)
	}
	if got != "/videos/final- cut.mp4" {
		t.Fatalf("unexpected manual name %q", got)
	}

	explicit := request.Request{Topic: "x", Output: "/tmp/exact.mp4", FilenameMode: "manual", CustomFilename: "ignored"}
	got, err = explicit.OutputPath(dir, now)
	if err != nil {
		t.Fatalf("OutputPath returned error: %v", err)
	}
	if got != "/tmp/exact.mp4" {
		t.Fatalf("explicit output should win, got %q", got)
	}

	empty := request.Request{FilenameMode: "manual", CustomFilename: "???"}
	if _, err := empty.OutputPath(dir, now); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput for unusable custom filename, got %v", err)
	}
}
