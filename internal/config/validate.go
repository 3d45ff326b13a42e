package config

import (
	"errors"
	"fmt"
	"math"
	"os"
)

// ValidationError marks configuration that cannot be used.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ErrorKind classifies the error for reporting.
func (e *ValidationError) ErrorKind() string { return "configuration" }

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEvaluation(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return &ValidationError{Field: "paths.output_dir", Reason: "must be set"}
	}
	if c.Paths.RoleMap != "" {
		info, err := os.Stat(c.Paths.RoleMap)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return &ValidationError{Field: "paths.role_map", Reason: fmt.Sprintf("%q does not exist", c.Paths.RoleMap)}
			}
			return fmt.Errorf("stat paths.role_map: %w", err)
		}
		if info.IsDir() {
			return &ValidationError{Field: "paths.role_map", Reason: "must be a file"}
		}
	}
	return nil
}

func (c *Config) validateEvaluation() error {
	chunk := c.Evaluation.ChunkSeconds
	if chunk <= 0 || math.IsNaN(chunk) || math.IsInf(chunk, 0) {
		return &ValidationError{Field: "evaluation.chunk_seconds", Reason: "must be a positive number of seconds"}
	}
	switch c.Evaluation.MissingHypothesis {
	case MissingHypothesisSkip, MissingHypothesisEmpty:
	default:
		return &ValidationError{
			Field:  "evaluation.missing_hypothesis",
			Reason: fmt.Sprintf("must be %q or %q, got %q", MissingHypothesisSkip, MissingHypothesisEmpty, c.Evaluation.MissingHypothesis),
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return &ValidationError{Field: "logging.level", Reason: fmt.Sprintf("unsupported level %q", c.Logging.Level)}
	}
}
