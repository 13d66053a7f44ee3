package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsmith/internal/config"
	"reelsmith/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("free", dir, 0); !result.Passed {
		t.Fatalf("expected pass with zero minimum, got %s", result.Detail)
	}
	if result := CheckFreeSpace("free", dir, 1<<50); result.Passed {
		t.Fatal("expected failure for absurd minimum")
	}
	if result := CheckFreeSpace("free", filepath.Join(dir, "missing"), 0); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckOptionalDirectory(t *testing.T) {
	if result := CheckOptionalDirectory("assets", ""); !result.Passed {
		t.Fatal("expected pass when unset")
	}
	if result := CheckOptionalDirectory("assets", filepath.Join(t.TempDir(), "absent")); !result.Passed {
		t.Fatalf("expected pass when absent, got %s", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.AssetDir = ""
	cfg.Workspace.MinFreeMiB = 0

	results := RunAll(&cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestErrNamesFailures(t *testing.T) {
	err := Err([]Result{
		{Name: "ok", Passed: true},
		{Name: "Output directory", Detail: "/x (error: does not exist)"},
	})
	if !errors.Is(err, services.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Output directory") {
		t.Fatalf("expected failing check named, got %v", err)
	}
}

func TestCheckSystemDepsListsMediaTools(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = "clearly-not-ffmpeg"
	cfg.Tools.FFprobe = "clearly-not-ffprobe"
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, s := range statuses {
		if s.Available {
			t.Fatalf("expected %s unavailable", s.Name)
		}
	}
}
