package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"subfetch/internal/config"
	"subfetch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	videoDir   string
	index      *httptest.Server
	searches   atomic.Int32
	downloads  atomic.Int32
}

// setupCLITestEnv writes a config pointing at a fake subtitle index that
// offers an English .srt and a Chinese .ass subtitle for every fingerprint.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("SUBFETCH_INDEX_URL", "")
	t.Setenv("SUBFETCH_LOG_LEVEL", "")

	env := &cliTestEnv{}
	mux := http.NewServeMux()
	mux.HandleFunc("/subxl/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".json") {
			http.NotFound(w, r)
			return
		}
		env.searches.Add(1)
		origin := "http://" + r.Host
		fmt.Fprintf(w, `{"sublist":[
			{"scid":"1","sname":"en.srt","language":"en","surl":%q,"svote":5},
			{"scid":"2","sname":"chs.ass","language":"简体","surl":%q,"svote":2},
			{}
		]}`, origin+"/files/english.srt", origin+"/files/chinese.ass?token=1")
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		env.downloads.Add(1)
		fmt.Fprintf(w, "1\n00:00:01,000 --> 00:00:02,000\n%s\n", filepath.Base(r.URL.Path))
	})
	env.index = httptest.NewServer(mux)
	t.Cleanup(env.index.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithIndexURL(env.index.URL+"/subxl"))
	cfg.Paths.LogDir = ""
	cfg.Probe.Enabled = false
	cfg.Logging.Level = "error"
	env.cfg = cfg

	env.configPath = filepath.Join(base, "subfetch.toml")
	writeTestConfig(t, env.configPath, cfg)

	videoDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("eval video dir: %v", err)
	}
	env.videoDir = videoDir
	return env
}

func (e *cliTestEnv) writeVideo(t *testing.T, name string, size int64) string {
	t.Helper()
	return testsupport.WritePattern(t, filepath.Join(e.videoDir, name), size, byte(len(name)))
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

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
