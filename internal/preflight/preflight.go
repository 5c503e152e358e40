package preflight

import (
	"context"

	"captionsync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))

	work := CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir)
	results = append(results, work)
	if work.Passed {
		results = append(results, CheckFreeSpace("Work directory space", cfg.Paths.WorkDir, MinFreeBytes))
	}

	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	}

	results = append(results, CheckRecognizerRuntime(ctx, cfg))

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
