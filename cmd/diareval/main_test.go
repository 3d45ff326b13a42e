package main

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diareval/internal/report"
	"diareval/internal/rttm"
	"diareval/internal/testsupport"
)

type scoreJSON struct {
	RunID      string `json:"run_id"`
	Recordings []struct {
		Recording   string `json:"recording"`
		BoundSource string `json:"bound_source"`
		Rows        []struct {
			Label       string   `json:"label"`
			Correct     *float64 `json:"correct"`
			MissSpeaker *float64 `json:"miss_speaker"`
		} `json:"rows"`
		Totals struct {
			Correct *float64 `json:"correct"`
		} `json:"totals"`
		Mapping []struct {
			Hypothesis string `json:"hypothesis"`
			Reference  string `json:"reference"`
		} `json:"mapping"`
	} `json:"recordings"`
	Skipped []struct {
		Recording   string `json:"recording"`
		MissingFrom string `json:"missing_from"`
	} `json:"skipped"`
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.OutputDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample config: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "bad.toml")
	testsupport.WriteText(t, bad, "[evaluation]\nmissing_hypothesis = \"guess\"\n")

	if _, _, err := runCLI(t, []string{"config", "validate"}, bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestScoreCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	ref, hyp := writeSpeakerFixtures(t, env.dataDir)

	out, _, err := runCLI(t, []string{"--json", "score", "--raw", ref, hyp}, env.configPath)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	var got scoreJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode score output: %v\n%s", err, out)
	}
	if len(got.Recordings) != 1 || got.Recordings[0].Recording != "rec1" {
		t.Fatalf("unexpected recordings %+v", got.Recordings)
	}
	rec := got.Recordings[0]
	if rec.BoundSource != "annotation" {
		t.Fatalf("bound source = %q, want annotation", rec.BoundSource)
	}
	if rec.Totals.Correct == nil || !approx(*rec.Totals.Correct, 8) {
		t.Fatalf("total correct = %v, want 8", rec.Totals.Correct)
	}
	if len(rec.Rows) < 2 || rec.Rows[0].Label != "A" || !approx(*rec.Rows[0].Correct, 4.5) || !approx(*rec.Rows[0].MissSpeaker, 0.5) {
		t.Fatalf("unexpected rows %+v", rec.Rows)
	}
	pairs := map[string]string{}
	for _, p := range rec.Mapping {
		pairs[p.Hypothesis] = p.Reference
	}
	if pairs["X"] != "A" || pairs["Y"] != "B" {
		t.Fatalf("unexpected mapping %v", pairs)
	}

	runDir := filepath.Join(env.cfg.Paths.OutputDir, "system-"+got.RunID)
	for _, name := range []string{report.ScoresFile, report.MappingFile, report.SummaryFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Fatalf("expected %s in %s: %v", name, runDir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(runDir, report.ChunksFile)); !os.IsNotExist(err) {
		t.Fatalf("chunks file written without --chunk-size: %v", err)
	}
}

func TestScoreCommandTableWithUEMAndChunks(t *testing.T) {
	env := setupCLITestEnv(t)
	ref, hyp := writeSpeakerFixtures(t, env.dataDir)
	uem := testsupport.WriteUEM(t, env.dataDir, "all.uem", testsupport.Bound{Recording: "rec1", Start: 0, End: 10})
	outDir := filepath.Join(env.baseDir, "custom")

	out, _, err := runCLI(t, []string{"score", "--uem", uem, "--chunk-size", "5", "-o", outDir, ref, hyp}, env.configPath)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	requireContains(t, out, "rec1")
	requireContains(t, out, "total")
	requireContains(t, out, "[OK] 1 recording")
	requireContains(t, out, outDir)

	matches, err := filepath.Glob(filepath.Join(outDir, "system-*", report.ChunksFile))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one chunks file under %s, got %v (%v)", outDir, matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 2 {
		t.Fatalf("expected header and two chunks, got:\n%s", data)
	}
}

func TestScoreCommandVoiceActivity(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithVoiceActivity())
	ref, hyp := writeSpeakerFixtures(t, env.dataDir)

	out, _, err := runCLI(t, []string{"--json", "score", "--no-files", ref, hyp}, env.configPath)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var got scoreJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	rec := got.Recordings[0]
	if len(rec.Mapping) != 0 {
		t.Fatalf("voice-activity scoring should not map speakers: %+v", rec.Mapping)
	}
	for _, row := range rec.Rows {
		if row.MissSpeaker != nil {
			t.Fatalf("expected null miss_speaker in voice-activity mode, got %v", *row.MissSpeaker)
		}
	}
	entries, err := os.ReadDir(env.cfg.Paths.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("--no-files wrote %v", entries)
	}
}

func TestScoreCommandReportsSkippedRecordings(t *testing.T) {
	env := setupCLITestEnv(t)
	ref := testsupport.WriteRTTM(t, env.dataDir, "ref.rttm",
		testsupport.Segment{Recording: "rec1", Label: "A", Onset: 0, Duration: 2},
		testsupport.Segment{Recording: "rec2", Label: "A", Onset: 0, Duration: 2},
	)
	hyp := testsupport.WriteRTTM(t, env.dataDir, "hyp.rttm",
		testsupport.Segment{Recording: "rec1", Label: "S", Onset: 0, Duration: 2},
	)

	out, _, err := runCLI(t, []string{"--json", "score", "--no-files", ref, hyp}, env.configPath)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var got scoreJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Recordings) != 1 || len(got.Skipped) != 1 || got.Skipped[0].Recording != "rec2" || got.Skipped[0].MissingFrom != "hypothesis" {
		t.Fatalf("unexpected outcome %+v", got)
	}
}

func TestScoreCommandRejectsMalformedRTTM(t *testing.T) {
	env := setupCLITestEnv(t)
	_, hyp := writeSpeakerFixtures(t, env.dataDir)
	bad := filepath.Join(env.dataDir, "bad.rttm")
	testsupport.WriteText(t, bad, "SPEAKER rec1 1 0.0 1.0 <NA> <NA> A\n")

	_, _, err := runCLI(t, []string{"score", bad, hyp}, env.configPath)
	var parseErr *rttm.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *rttm.ParseError, got %v", err)
	}
	if parseErr.Line != 1 {
		t.Fatalf("line = %d, want 1", parseErr.Line)
	}
}

func TestScoreCommandRequiresTwoArgs(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"score", "only.rttm"}, env.configPath); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestChunksCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	ref := testsupport.WriteRTTM(t, env.dataDir, "ref.rttm",
		testsupport.Segment{Recording: "rec1", Label: "A", Onset: 0, Duration: 10},
	)
	hyp := testsupport.WriteRTTM(t, env.dataDir, "hyp.rttm",
		testsupport.Segment{Recording: "rec1", Label: "S", Onset: 0, Duration: 4},
		testsupport.Segment{Recording: "rec1", Label: "S", Onset: 6, Duration: 4},
	)

	out, _, err := runCLI(t, []string{"--json", "chunks", "--size", "5", "--no-files", ref, hyp}, env.configPath)
	if err != nil {
		t.Fatalf("chunks: %v", err)
	}
	var got []struct {
		Recording string `json:"recording"`
		Chunks    []struct {
			Start, End, True, False, Miss float64
		} `json:"chunks"`
		Totals struct {
			True, Miss float64
		} `json:"totals"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got) != 1 || len(got[0].Chunks) != 2 {
		t.Fatalf("unexpected chunks %+v", got)
	}
	for i, c := range got[0].Chunks {
		if !approx(c.True, 4) || !approx(c.Miss, 1) || !approx(c.False, 0) {
			t.Fatalf("chunk %d = %+v, want true 4 miss 1 false 0", i, c)
		}
	}
	if !approx(got[0].Totals.True, 8) || !approx(got[0].Totals.Miss, 2) {
		t.Fatalf("unexpected totals %+v", got[0].Totals)
	}
}

func TestChunksCommandRejectsBadSize(t *testing.T) {
	env := setupCLITestEnv(t)
	ref, hyp := writeSpeakerFixtures(t, env.dataDir)
	if _, _, err := runCLI(t, []string{"chunks", "--size", "0", ref, hyp}, env.configPath); err == nil {
		t.Fatal("expected error for zero chunk size")
	}
}

func TestChunksCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	ref, hyp := writeSpeakerFixtures(t, env.dataDir)

	out, _, err := runCLI(t, []string{"chunks", "--size", "4", ref, hyp}, env.configPath)
	if err != nil {
		t.Fatalf("chunks: %v", err)
	}
	requireContains(t, out, "== rec1 ==")
	requireContains(t, out, "A,B")
	requireContains(t, out, "total: true")
}

func TestStatsCommandUsesRoleMapAndWAVBound(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithRoleMap("SPK1: child\n"))
	testsupport.WriteWAV(t, filepath.Join(env.cfg.Paths.WavDir, "rec1.wav"), 8000, 10)
	ref := testsupport.WriteRTTM(t, env.dataDir, "corpus.rttm",
		testsupport.Segment{Recording: "rec1", Label: "SPK1", Onset: 0, Duration: 4},
		testsupport.Segment{Recording: "rec1", Label: "FEM", Onset: 2, Duration: 4},
	)

	out, _, err := runCLI(t, []string{"--json", "stats", ref}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var got []struct {
		Recording   string         `json:"recording"`
		ClipLength  float64        `json:"clip_length"`
		RoleCounts  map[string]int `json:"role_counts"`
		Speech      float64        `json:"speech"`
		Overlap     float64        `json:"overlap"`
		PropOverlap float64        `json:"prop_overlap"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected stats %+v", got)
	}
	s := got[0]
	if !approx(s.ClipLength, 10) {
		t.Fatalf("clip length = %v, want 10 from the WAV file", s.ClipLength)
	}
	if s.RoleCounts["child"] != 1 || s.RoleCounts["female_adult"] != 1 {
		t.Fatalf("unexpected role counts %v", s.RoleCounts)
	}
	if !approx(s.Speech, 6) || !approx(s.Overlap, 2) || !approx(s.PropOverlap, 2.0/6) {
		t.Fatalf("unexpected speech/overlap %+v", s)
	}

	matches, err := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "corpus-stats-*", report.FileStatsFile))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected stats CSV, got %v (%v)", matches, err)
	}
}

func TestStatsCommandTable(t *testing.T) {
	env := setupCLITestEnv(t)
	ref := testsupport.WriteRTTM(t, env.dataDir, "corpus.rttm",
		testsupport.Segment{Recording: "rec1", Label: "CHI", Onset: 0, Duration: 4},
	)
	out, _, err := runCLI(t, []string{"stats", "--no-files", ref}, env.configPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "rec1")
	requireContains(t, out, "CHILD")
	requireContains(t, out, "[OK] 1")
}

func TestScoreCommandReportsMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, hyp := writeSpeakerFixtures(t, env.dataDir)
	missing := filepath.Join(env.dataDir, "nope.rttm")

	_, _, err := runCLI(t, []string{"score", missing, hyp}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "nope.rttm") {
		t.Fatalf("expected error naming the missing file, got %v", err)
	}
}

func TestConfigValidateReportsMissingWAVDir(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(env.cfg.Paths.WavDir); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "WAV directory")
}

func TestLogsCommandFilters(t *testing.T) {
	env := setupCLITestEnv(t)
	logPath := filepath.Join(env.cfg.Paths.LogDir, "diareval.log")
	testsupport.WriteText(t, logPath, strings.Join([]string{
		`{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"evaluation started","component":"evaluate","run_id":"r1"}`,
		`{"ts":"2026-01-02T03:04:06Z","level":"warn","msg":"recording skipped","component":"evaluate","run_id":"r1","recording":"rec2","missing_from":"hypothesis"}`,
	}, "\n")+"\n")

	out, _, err := runCLI(t, []string{"logs", "--recording", "rec2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "WARN")
	requireContains(t, out, "evaluate [rec2]: recording skipped")
	requireContains(t, out, "missing_from=hypothesis")
	if strings.Contains(out, "evaluation started") {
		t.Fatalf("filter ignored: %s", out)
	}

	out, _, err = runCLI(t, []string{"logs", "--run", "nope"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "No log records matched")
}
