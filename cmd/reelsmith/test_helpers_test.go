package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelsmith/internal/config"
	"reelsmith/internal/testsupport"
)

// probeJSON is what the stub ffprobe prints for every file.
const probeJSON = `{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"avg_frame_rate":"30/1"},{"index":1,"codec_type":"audio","codec_name":"aac","sample_rate":"44100","channels":2}],"format":{"filename":"stub","nb_streams":2,"duration":"8.000000","format_name":"mov"}}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("NO_COLOR", "1")
	t.Chdir(base)

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	binDir := filepath.Join(testsupport.BaseDir(cfg), "bin")
	probeStub := "#!/bin/sh\ncat <<'JSON'\n" + probeJSON + "\nJSON\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(probeStub), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}
	cfg.Tools.FFmpeg = filepath.Join(binDir, "ffmpeg")
	cfg.Tools.FFprobe = filepath.Join(binDir, "ffprobe")

	configPath := filepath.Join(base, "reelsmith-test.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
