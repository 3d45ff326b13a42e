package testsupport

import (
	"path/filepath"
	"testing"

	"diareval/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "reports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.WavDir = filepath.Join(base, "wav")
	cfgVal.Logging.Level = "debug"
	cfgVal.Evaluation.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithVoiceActivity switches the test config to voice-activity scoring.
func WithVoiceActivity() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Evaluation.VoiceActivity = true
	}
}

// WithRawDurations disables normalization.
func WithRawDurations() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Evaluation.Normalize = false
	}
}

// WithMissingHypothesis sets evaluation.missing_hypothesis.
func WithMissingHypothesis(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Evaluation.MissingHypothesis = policy
	}
}

// WithRoleMap writes body to a YAML file under the base dir and points
// paths.role_map at it.
func WithRoleMap(body string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "roles.yaml")
		WriteText(b.t, path, body)
		b.cfg.Paths.RoleMap = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
