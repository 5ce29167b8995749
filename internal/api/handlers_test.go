package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalambet/mercuryprefs/internal/settings"
	"github.com/kalambet/mercuryprefs/internal/storage"
)

const testToken = "test-token-12345"

func setupAppHandler(t *testing.T) (http.Handler, *settings.Store, *storage.Store) {
	t.Helper()
	history, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { history.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := storage.NewRecorder(history, 0, logger)
	path := filepath.Join(t.TempDir(), "app-config.json")
	store := settings.New(path, settings.WithLogger(logger), settings.WithListener(rec.Record))
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	handler := NewAppHandler(AppDeps{
		Settings: store,
		History:  history,
		Token:    testToken,
		Logger:   logger,
	})
	return handler, store, history
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth_NoAuth(t *testing.T) {
	h, _, _ := setupAppHandler(t)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestAuth_Rejected(t *testing.T) {
	h, _, _ := setupAppHandler(t)

	for _, token := range []string{"", "wrong"} {
		rr := serve(h, authReq(http.MethodGet, "/settings", "", token))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rr.Code)
		}
	}
}

func TestSettings_GetAll(t *testing.T) {
	h, _, _ := setupAppHandler(t)

	rr := serve(h, authReq(http.MethodGet, "/settings", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var snap settings.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if snap.Values != settings.DefaultValues() || len(snap.Buttons) != 4 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSettings_PutAndGet(t *testing.T) {
	h, store, _ := setupAppHandler(t)

	rr := serve(h, authReq(http.MethodPut, "/settings/minOpacity", `{"value":"40"}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	if store.MinOpacity() != 40 {
		t.Errorf("MinOpacity() = %d, want 40", store.MinOpacity())
	}

	rr = serve(h, authReq(http.MethodGet, "/settings/minOpacity", "", testToken))
	var body valueBody
	json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Value != "40" {
		t.Errorf("GET value = %q, want 40", body.Value)
	}
}

func TestSettings_Errors(t *testing.T) {
	h, _, _ := setupAppHandler(t)

	cases := []struct {
		method, url, body string
		want              int
	}{
		{http.MethodGet, "/settings/volume", "", http.StatusNotFound},
		{http.MethodPut, "/settings/volume", `{"value":"1"}`, http.StatusNotFound},
		{http.MethodPut, "/settings/decayTime", `{"value":"soon"}`, http.StatusBadRequest},
		{http.MethodPut, "/settings/decayTime", `not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := serve(h, authReq(tc.method, tc.url, tc.body, testToken))
		if rr.Code != tc.want {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.url, rr.Code, tc.want)
		}
	}
}

func TestButtons_PutReplacesList(t *testing.T) {
	h, store, _ := setupAppHandler(t)

	body := `[{"id":9,"title":"brb","value":"one moment","isKick":false,"isClose":true}]`
	rr := serve(h, authReq(http.MethodPut, "/buttons", body, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	got := store.Buttons()
	want := settings.Button{ID: 9, Title: "brb", ResponseText: "one moment", IsClose: true}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Buttons() = %+v, want [%+v]", got, want)
	}
}

func TestFrames(t *testing.T) {
	h, store, _ := setupAppHandler(t)

	rr := serve(h, authReq(http.MethodGet, "/frames/TimerFrame", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rr.Code)
	}

	rr = serve(h, authReq(http.MethodPut, "/frames/TimerFrame/location", `{"x":5,"y":6}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT location status = %d; body = %s", rr.Code, rr.Body.String())
	}
	rr = serve(h, authReq(http.MethodPut, "/frames/TimerFrame/size", `{"width":250,"height":110}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT size status = %d; body = %s", rr.Code, rr.Body.String())
	}

	want := settings.FrameLayout{Location: settings.Point{X: 5, Y: 6}, Size: settings.Size{Width: 250, Height: 110}}
	if got := store.Frames()["TimerFrame"]; got != want {
		t.Errorf("TimerFrame = %+v, want %+v", got, want)
	}

	if rr := serve(h, authReq(http.MethodGet, "/frames/NoSuchFrame", "", testToken)); rr.Code != http.StatusNotFound {
		t.Errorf("unknown frame status = %d, want 404", rr.Code)
	}
	if rr := serve(h, authReq(http.MethodPut, "/frames/TimerFrame/size", `{"width":-1,"height":1}`, testToken)); rr.Code != http.StatusBadRequest {
		t.Errorf("negative size status = %d, want 400", rr.Code)
	}
}

func TestFrames_MinimumSize(t *testing.T) {
	h, _, _ := setupAppHandler(t)

	rr := serve(h, authReq(http.MethodGet, "/frames/IncMessageFrame/minimum-size", "", testToken))
	var s settings.Size
	json.Unmarshal(rr.Body.Bytes(), &s)
	if rr.Code != http.StatusOK || s != (settings.Size{Width: 315, Height: 10}) {
		t.Errorf("status = %d, size = %+v", rr.Code, s)
	}

	if rr := serve(h, authReq(http.MethodGet, "/frames/NoSuchFrame/minimum-size", "", testToken)); rr.Code != http.StatusNotFound {
		t.Errorf("unknown frame status = %d, want 404", rr.Code)
	}
}

func TestGamePath_Validate(t *testing.T) {
	h, _, _ := setupAppHandler(t)

	game := t.TempDir()
	os.MkdirAll(filepath.Join(game, "logs"), 0o755)
	os.WriteFile(filepath.Join(game, "logs", "Client.txt"), nil, 0o644)

	for dir, want := range map[string]bool{game: true, t.TempDir(): false} {
		rr := serve(h, authReq(http.MethodGet, "/game-path/validate?path="+dir, "", testToken))
		var body struct {
			Valid bool `json:"valid"`
		}
		json.Unmarshal(rr.Body.Bytes(), &body)
		if body.Valid != want {
			t.Errorf("valid(%s) = %v, want %v", dir, body.Valid, want)
		}
	}
}

func TestHistory_ListAndRestore(t *testing.T) {
	h, store, _ := setupAppHandler(t)

	if err := store.SetDecayTime(30); err != nil {
		t.Fatal(err)
	}
	if err := store.SetDecayTime(90); err != nil {
		t.Fatal(err)
	}

	rr := serve(h, authReq(http.MethodGet, "/history?limit=10", "", testToken))
	var snaps []storage.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snaps); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("history entries = %d, want 3 (init + 2 writes)", len(snaps))
	}

	rr = serve(h, authReq(http.MethodPost, fmt.Sprintf("/history/%s/restore", snaps[1].ID), "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("restore status = %d; body = %s", rr.Code, rr.Body.String())
	}
	if store.DecayTime() != 30 {
		t.Errorf("DecayTime() after restore = %d, want 30", store.DecayTime())
	}

	if rr := serve(h, authReq(http.MethodPost, "/history/missing/restore", "", testToken)); rr.Code != http.StatusNotFound {
		t.Errorf("missing snapshot status = %d, want 404", rr.Code)
	}
}

func TestHistory_Disabled(t *testing.T) {
	h := NewAppHandler(AppDeps{Settings: newTestSettings(t), Token: testToken})

	if rr := serve(h, authReq(http.MethodGet, "/history", "", testToken)); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestParseIntParam(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"limit=5", 5},
		{"limit=-3", 20},
		{"limit=abc", 20},
		{"limit=500", 100},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/history?"+tc.query, nil)
		if got := parseIntParam(r, "limit", 20, 100); got != tc.want {
			t.Errorf("parseIntParam(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}
