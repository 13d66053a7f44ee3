package preflight

import (
	"strings"

	"reelsmith/internal/config"
	"reelsmith/internal/deps"
	"reelsmith/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks a render depends on. Directories are
// expected to exist already; callers run cfg.EnsureDirectories first.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckFreeSpace("Work free space", cfg.Paths.WorkDir, cfg.Workspace.MinFreeMiB),
		CheckOptionalDirectory("Asset directory", cfg.Paths.AssetDir),
	}
	if cfg.Paths.OutputDir != cfg.Paths.WorkDir {
		results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir, cfg.Workspace.MinFreeMiB))
	}
	return results
}

// CheckSystemDeps evaluates the binaries a render needs. Both the render
// engine and the doctor command use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.MediaTools(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
}

// Err folds failed results into one resource error, or nil when all passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name+": "+r.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrResource, "preflight", "", strings.Join(failed, "; "), nil)
}
