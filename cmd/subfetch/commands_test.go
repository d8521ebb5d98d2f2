package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subfetch/internal/fingerprint"
	"subfetch/internal/subtitles"
)

func TestHashPrintsFingerprintSizeAndPath(t *testing.T) {
	env := setupCLITestEnv(t)
	video := env.writeVideo(t, "clip.mkv", 0x10000)
	want, err := fingerprint.Compute(video)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	out, _, err := runCLI(t, []string{"hash", video}, "")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if got := strings.TrimSpace(out); got != want+"  65536  "+video {
		t.Fatalf("unexpected hash line %q", got)
	}

	out, _, err = runCLI(t, []string{"hash", "--json", env.videoDir}, "")
	if err != nil {
		t.Fatalf("hash dir: %v", err)
	}
	var entries []hashEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode hash json: %v", err)
	}
	if len(entries) != 1 || entries[0].Fingerprint != want {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestHashMissingFile(t *testing.T) {
	if _, _, err := runCLI(t, []string{"hash", filepath.Join(t.TempDir(), "nope.mkv")}, ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTargetCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	video := env.writeVideo(t, "Foo.Bar.2020.mkv", 128)

	out, _, err := runCLI(t, []string{"target", video, "--index", "2", "--url", "http://x.test/dl/sub.ASS?x=1", "--language", "chs"}, "")
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	want := filepath.Join(env.videoDir, "Foo.Bar.2020_2_chs.ASS")
	if strings.TrimSpace(out) != want {
		t.Fatalf("target = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, _, err := runCLI(t, []string{"target", video, "--url", "no-scheme"}, ""); err == nil {
		t.Fatal("expected url parse error")
	}
	if _, _, err := runCLI(t, []string{"target", video}, ""); err == nil {
		t.Fatal("expected missing --url error")
	}
}

func TestFetchWritesSubtitlesAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	video := env.writeVideo(t, "Movie.2021.mp4", 0x20000)

	out, _, err := runCLI(t, []string{"fetch", "--json", video}, env.configPath)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var report fetchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode fetch report: %v\n%s", err, out)
	}
	if report.RunID == "" || len(report.Results) != 1 || len(report.Failures) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	result := report.Results[0]
	if len(result.Downloads) != 2 {
		t.Fatalf("expected 2 downloads, got %+v", result.Downloads)
	}
	english := filepath.Join(env.videoDir, "Movie.2021_0_en.srt")
	chinese := filepath.Join(env.videoDir, "Movie.2021_1_简体.ass")
	for _, path := range []string{english, chinese} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected subtitle at %s: %v", path, err)
		}
	}

	out, _, err = runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "Movie.2021_0_en.srt")
	requireContains(t, out, "2 downloads across 1 fingerprinted videos")

	out, _, err = runCLI(t, []string{"fetch", video}, env.configPath)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	requireContains(t, out, string(subtitles.SkipExists))

	out, _, err = runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 2 downloads")
}

func TestFetchDryRunAndLanguageFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	video := env.writeVideo(t, "Show.S01E01.mkv", 4096)

	out, _, err := runCLI(t, []string{"fetch", "--dry-run", "--lang", "EN", env.videoDir}, env.configPath)
	if err != nil {
		t.Fatalf("fetch dry run: %v", err)
	}
	requireContains(t, out, "PLAN")
	requireContains(t, out, "Show.S01E01_0_en.srt")
	if strings.Contains(out, "简体") {
		t.Fatalf("language filter not applied:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(video), "Show.S01E01_0_en.srt")); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote a subtitle (err=%v)", err)
	}
	if env.downloads.Load() != 0 {
		t.Fatalf("dry run downloaded %d files", env.downloads.Load())
	}
}

func TestFetchReportsMissingVideo(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"fetch", filepath.Join(env.videoDir, "missing.mkv")}, env.configPath); err == nil {
		t.Fatal("expected error for missing video")
	}
}

func TestInfoCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	video := env.writeVideo(t, "clip.mkv", 2048)

	out, _, err := runCLI(t, []string{"info", "--json", video}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var report infoReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	want, _ := fingerprint.Compute(video)
	if report.Fingerprint != want || report.Size != 2048 || report.Media != nil {
		t.Fatalf("unexpected info report %+v", report)
	}
	if report.PreviouslyAt != nil {
		t.Fatalf("video should not have history yet: %+v", report)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.configPath)
	requireContains(t, out, env.index.URL+"/subxl")
}

func TestDoctorPassesWithReachableIndex(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "State directory")
	requireContains(t, out, "OK")
}

func TestDoctorFailsWhenIndexDown(t *testing.T) {
	env := setupCLITestEnv(t)
	env.index.Close()
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatalf("expected doctor failure, got:\n%s", out)
	}
	requireContains(t, out, "FAIL")
}
