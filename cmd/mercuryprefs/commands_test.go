package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalambet/mercuryprefs/internal/config"
	"github.com/kalambet/mercuryprefs/internal/settings"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

// useTestServer points the remote commands at ts.
func useTestServer(t *testing.T, ts *testServer) {
	t.Helper()
	origLoad, origClient := loadConfig, newAPIClient
	loadConfig = func() (config.Config, error) { return config.Config{}, nil }
	newAPIClient = func(config.Config) (*apiClient, error) { return ts.client(), nil }
	t.Cleanup(func() {
		loadConfig, newAPIClient = origLoad, origClient
	})
}

// useTempEnv isolates config, history and the settings file in temp dirs
// and returns the settings path.
func useTempEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs", "app-config.json")

	t.Setenv("MERCURYPREFS_CONFIG", filepath.Join(dir, "config.json"))
	t.Setenv("MERCURYPREFS_STORAGE_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("MERCURYPREFS_SETTINGS_PATH", path)
	t.Setenv("MERCURYPREFS_LOG_LEVEL", "error")

	origNoColor := noColor
	noColor = true
	t.Cleanup(func() { noColor = origNoColor })
	return path
}

// run executes the root command and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func openTestEnv(t *testing.T) *appEnv {
	t.Helper()
	env, err := openEnv()
	if err != nil {
		t.Fatalf("openEnv: %v", err)
	}
	t.Cleanup(env.Close)
	return env
}

var ctx = context.Background()

func TestSetRemote_SendsPut(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"PUT /settings/decayTime": `{"key":"decayTime","value":"5"}`,
	})
	useTestServer(t, ts)

	if err := setRemote(ctx, "decayTime", "5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Method != "PUT" || r.Path != "/settings/decayTime" {
		t.Errorf("request = %s %s, want PUT /settings/decayTime", r.Method, r.Path)
	}
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["value"] != "5" {
		t.Errorf("body.value = %q, want 5", body["value"])
	}
}

func TestSetRemote_ServerError(t *testing.T) {
	ts := newTestServer(t, map[string]string{})
	useTestServer(t, ts)

	err := setRemote(ctx, "nope", "1")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want it to mention 404", err)
	}
}

func TestRestoreRemote_PostsToSnapshot(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /history/abc/restore": `{"status":"restored","id":"abc"}`,
	})
	useTestServer(t, ts)

	if err := restoreRemote(ctx, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ts.requests) != 1 || ts.requests[0].Method != "POST" {
		t.Fatalf("requests = %+v, want one POST", ts.requests)
	}
	if ts.requests[0].Body != "" {
		t.Errorf("body = %q, want empty", ts.requests[0].Body)
	}
}

func TestShowStatus_ServerStopped(t *testing.T) {
	useTempEnv(t)
	ts := newTestServer(t, map[string]string{})
	ts.server.Close()
	useTestServer(t, ts)

	if err := showStatus(ctx); err != nil {
		t.Errorf("showStatus should not fail when the server is down: %v", err)
	}
}

func TestDecodeJSON_ErrorIncludesBody(t *testing.T) {
	ts := newTestServer(t, map[string]string{})

	resp, err := ts.client().get(ctx, "/missing")
	if err != nil {
		t.Fatal(err)
	}
	var v any
	err = decodeJSON(resp, &v)
	if err == nil || !strings.Contains(err.Error(), "not_found") {
		t.Errorf("error = %v, want server body in message", err)
	}
}

func TestCountLabel(t *testing.T) {
	if got := countLabel(5, 100); got != "5" {
		t.Errorf("countLabel(5, 100) = %q", got)
	}
	if got := countLabel(100, 100); got != "100+" {
		t.Errorf("countLabel(100, 100) = %q", got)
	}
}

func TestSetCommand_WritesFileAndHistory(t *testing.T) {
	path := useTempEnv(t)

	if _, err := run(t, "set", "minOpacity", "40"); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("settings file not written: %v", err)
	}
	if !strings.Contains(string(data), `"minOpacity": 40`) {
		t.Errorf("settings file missing minOpacity 40:\n%s", data)
	}

	env := openTestEnv(t)
	snaps, err := env.history.ListSnapshots(10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 2 || snaps[0].Reason != settings.KeyMinOpacity || snaps[1].Reason != settings.ReasonInit {
		t.Errorf("snapshots = %+v, want minOpacity then init", snaps)
	}
}

func TestSetCommand_InvalidValue(t *testing.T) {
	useTempEnv(t)

	if _, err := run(t, "set", "decayTime", "soon"); err == nil {
		t.Error("expected error for non-integer decayTime")
	}
	if _, err := run(t, "set", "noSuchKey", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetCommand(t *testing.T) {
	useTempEnv(t)

	out, err := run(t, "get", "tradeMode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(out) != settings.DefaultValues().TradeMode {
		t.Errorf("get tradeMode = %q, want %q", out, settings.DefaultValues().TradeMode)
	}
}

func TestKeysCommand_ListsEveryKey(t *testing.T) {
	useTempEnv(t)

	out, err := run(t, "keys")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	for _, key := range settings.Keys() {
		if !strings.Contains(out, key) {
			t.Errorf("keys output missing %s", key)
		}
	}
}

func TestButtonsSet_YAMLFile(t *testing.T) {
	useTempEnv(t)

	file := filepath.Join(t.TempDir(), "buttons.yaml")
	yamlButtons := `
- id: 7
  title: wait
  value: one sec
- id: 8
  title: bye
  value: thanks, bye
  isKick: true
  isClose: true
`
	if err := os.WriteFile(file, []byte(yamlButtons), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "buttons", "set", file); err != nil {
		t.Fatalf("buttons set: %v", err)
	}

	out, err := run(t, "buttons", "list")
	if err != nil {
		t.Fatalf("buttons list: %v", err)
	}
	if !strings.Contains(out, "one sec") || !strings.Contains(out, "kick,close") {
		t.Errorf("buttons list output:\n%s", out)
	}

	env := openTestEnv(t)
	got := env.settings.Buttons()
	if len(got) != 2 || got[1].ID != 8 || !got[1].IsClose {
		t.Errorf("Buttons() = %+v", got)
	}
}

func TestFramesMoveAndResize(t *testing.T) {
	useTempEnv(t)

	if _, err := run(t, "frames", "move", "TimerFrame", "10", "20"); err != nil {
		t.Fatalf("frames move: %v", err)
	}
	if _, err := run(t, "frames", "resize", "TimerFrame", "300", "150"); err != nil {
		t.Fatalf("frames resize: %v", err)
	}

	out, err := run(t, "frames", "show", "TimerFrame")
	if err != nil {
		t.Fatalf("frames show: %v", err)
	}
	fields := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[1])
	want := []string{"TimerFrame", "10", "20", "300", "150"}
	if strings.Join(fields, " ") != strings.Join(want, " ") {
		t.Errorf("frames show row = %v, want %v", fields, want)
	}
}

func TestFramesShow_UnknownFrame(t *testing.T) {
	useTempEnv(t)

	if _, err := run(t, "frames", "show", "NoSuchFrame"); err == nil {
		t.Error("expected error for unknown frame")
	}
}

func TestGamePathCheck(t *testing.T) {
	useTempEnv(t)

	game := t.TempDir()
	if _, err := run(t, "game-path", "check", game); err == nil {
		t.Error("expected error for directory without logs/Client.txt")
	}

	if err := os.MkdirAll(filepath.Join(game, "logs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(game, "logs", "Client.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "game-path", "check", game); err != nil {
		t.Errorf("game-path check: %v", err)
	}
}

func TestExportCommand_YAMLToFile(t *testing.T) {
	useTempEnv(t)

	if _, err := run(t, "set", "decayTime", "9"); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "prefs.yaml")
	if _, err := run(t, "export", "--format", "yaml", "--output", output); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "decayTime: 9") {
		t.Errorf("export output missing decayTime:\n%s", data)
	}
}

func TestExportCommand_BadFormat(t *testing.T) {
	useTempEnv(t)

	if _, err := run(t, "export", "--format", "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestHistoryRestoreCommand(t *testing.T) {
	useTempEnv(t)

	if _, err := run(t, "set", "maxOpacity", "70"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "set", "maxOpacity", "90"); err != nil {
		t.Fatal(err)
	}

	env := openTestEnv(t)
	snaps, err := env.history.ListSnapshots(10, 0)
	if err != nil || len(snaps) != 3 {
		t.Fatalf("ListSnapshots = %d snapshots, err %v; want 3", len(snaps), err)
	}
	// snaps[1] is the maxOpacity=70 write.
	target := snaps[1].ID

	out, err := run(t, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("history list missing %s:\n%s", target, out)
	}

	if _, err := run(t, "history", "restore", target); err != nil {
		t.Fatalf("history restore: %v", err)
	}
	got, err := run(t, "get", "maxOpacity")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(got) != "70" {
		t.Errorf("maxOpacity after restore = %q, want 70", got)
	}

	if _, err := run(t, "history", "show", "missing-id"); err == nil {
		t.Error("expected error for unknown snapshot")
	}
}

func TestReadButtons_JSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "buttons.json")
	if err := os.WriteFile(file, []byte(`[{"id":1,"title":"hi","value":"hello","isKick":false,"isClose":true}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readButtons(file)
	if err != nil {
		t.Fatalf("readButtons: %v", err)
	}
	if len(got) != 1 || got[0].ResponseText != "hello" || !got[0].IsClose {
		t.Errorf("readButtons = %+v", got)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := pidFilePath(t.TempDir())
	if err := writePIDFile(path); err != nil {
		t.Fatal(err)
	}
	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
	removePIDFile(path)
	if _, err := readPIDFile(path); err == nil {
		t.Error("PID file still readable after remove")
	}
}
