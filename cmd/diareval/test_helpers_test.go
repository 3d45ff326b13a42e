package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diareval/internal/config"
	"diareval/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	dataDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("DIAREVAL_LOG_LEVEL", "")
	t.Setenv("DIAREVAL_WAV_DIR", "")

	dataDir := filepath.Join(base, "data")
	for _, dir := range []string{dataDir, cfg.Paths.WavDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		dataDir:    dataDir,
	}
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

// writeTestConfig keeps console logging at error level so test output stays
// readable; the log file still receives JSON records.
func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
wav_dir = %q
role_map = %q

[evaluation]
normalize = %t
voice_activity = %t
chunk_seconds = %g
workers = %d
missing_hypothesis = %q

[logging]
level = "error"
`,
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Paths.WavDir,
		cfg.Paths.RoleMap,
		cfg.Evaluation.Normalize,
		cfg.Evaluation.VoiceActivity,
		cfg.Evaluation.ChunkSeconds,
		cfg.Evaluation.Workers,
		cfg.Evaluation.MissingHypothesis,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// writeSpeakerFixtures writes the two-speaker reference/hypothesis pair used
// across the command tests and returns their paths.
func writeSpeakerFixtures(t *testing.T, dir string) (string, string) {
	t.Helper()
	ref := testsupport.WriteRTTM(t, dir, "ref.rttm",
		testsupport.Segment{Recording: "rec1", Label: "A", Onset: 0, Duration: 5},
		testsupport.Segment{Recording: "rec1", Label: "B", Onset: 4, Duration: 4},
	)
	hyp := testsupport.WriteRTTM(t, dir, "system.rttm",
		testsupport.Segment{Recording: "rec1", Label: "X", Onset: 0, Duration: 4.5},
		testsupport.Segment{Recording: "rec1", Label: "Y", Onset: 4.5, Duration: 3.5},
	)
	return ref, hyp
}
