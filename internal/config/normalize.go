package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEvaluation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.WavDir = strings.TrimSpace(c.Paths.WavDir)
	if c.Paths.WavDir == "" {
		if value, ok := os.LookupEnv("DIAREVAL_WAV_DIR"); ok {
			c.Paths.WavDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.WavDir, err = expandPath(c.Paths.WavDir); err != nil {
		return fmt.Errorf("paths.wav_dir: %w", err)
	}
	if c.Paths.RoleMap, err = expandPath(strings.TrimSpace(c.Paths.RoleMap)); err != nil {
		return fmt.Errorf("paths.role_map: %w", err)
	}
	return nil
}

func (c *Config) normalizeEvaluation() {
	c.Evaluation.MissingHypothesis = strings.ToLower(strings.TrimSpace(c.Evaluation.MissingHypothesis))
	if c.Evaluation.MissingHypothesis == "" {
		c.Evaluation.MissingHypothesis = MissingHypothesisSkip
	}
	if c.Evaluation.Workers <= 0 {
		c.Evaluation.Workers = 1
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		if value, ok := os.LookupEnv("DIAREVAL_LOG_LEVEL"); ok {
			c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
