package preflight

import (
	"errors"
	"fmt"

	"diareval/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, true))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, true))
	}

	if cfg.Paths.WavDir != "" {
		results = append(results, CheckWAVDir(cfg.Paths.WavDir))
	}

	if cfg.Paths.RoleMap != "" {
		results = append(results, CheckRoleMap(cfg.Paths.RoleMap))
	}

	return results
}

// CheckInputs verifies every path is a readable file and returns an error
// naming the first one that is not. Empty paths are ignored.
func CheckInputs(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if res := CheckReadableFile("input", path); !res.Passed {
			return fmt.Errorf("input %s", res.Detail)
		}
	}
	return nil
}

// Failed returns an error listing every failed result, or nil.
func Failed(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, r.Detail))
		}
	}
	return errors.Join(errs...)
}
