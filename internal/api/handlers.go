package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalambet/mercuryprefs/internal/settings"
	"github.com/kalambet/mercuryprefs/internal/storage"
)

// History is the snapshot store the API lists and restores from.
type History interface {
	ListSnapshots(limit, offset int) ([]storage.Snapshot, error)
	GetSnapshot(id string) (storage.Snapshot, error)
}

// AppDeps holds what the settings API serves.
type AppDeps struct {
	Settings *settings.Store
	History  History // optional; if nil, /history returns 503
	Hub      *Hub    // optional; if nil, /events is not routed
	Token    string
	Logger   *slog.Logger
}

type valueBody struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewAppHandler builds the API router. /health is public; everything else
// requires the bearer token.
func NewAppHandler(deps AppDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(deps.Logger))
	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/settings", handleGetSettings(deps))
		r.Get("/settings/{key}", handleGetSetting(deps))
		r.Put("/settings/{key}", handlePutSetting(deps))
		r.Get("/buttons", handleGetButtons(deps))
		r.Put("/buttons", handlePutButtons(deps))
		r.Get("/frames/{id}", handleGetFrame(deps))
		r.Put("/frames/{id}/location", handlePutFrameLocation(deps))
		r.Put("/frames/{id}/size", handlePutFrameSize(deps))
		r.Get("/frames/{id}/minimum-size", handleMinimumSize)
		r.Get("/game-path/validate", handleValidateGamePath(deps))
		r.Get("/history", handleListHistory(deps))
		r.Post("/history/{id}/restore", handleRestore(deps))
		if deps.Hub != nil {
			r.Get("/events", deps.Hub.ServeHTTP)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleGetSettings(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Settings.Snapshot())
	}
}

func handleGetSetting(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		v, err := deps.Settings.Get(key)
		if errors.Is(err, settings.ErrUnknownKey) {
			httpError(w, http.StatusNotFound, "not_found", "unknown settings key %q", key)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to read %s: %v", key, err)
			return
		}
		writeJSON(w, valueBody{Key: key, Value: v})
	}
}

func handlePutSetting(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		var body valueBody
		if !decodeBody(w, r, &body) {
			return
		}

		err := deps.Settings.Set(key, body.Value)
		var fe *settings.FieldError
		switch {
		case errors.Is(err, settings.ErrUnknownKey):
			httpError(w, http.StatusNotFound, "not_found", "unknown settings key %q", key)
			return
		case errors.As(err, &fe):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", fe)
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save %s: %v", key, err)
			return
		}

		v, _ := deps.Settings.Get(key)
		writeJSON(w, valueBody{Key: key, Value: v})
	}
}

func handleGetButtons(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Settings.Buttons())
	}
}

func handlePutButtons(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buttons []settings.Button
		if !decodeBody(w, r, &buttons) {
			return
		}
		if err := deps.Settings.SaveButtons(buttons); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save buttons: %v", err)
			return
		}
		writeJSON(w, deps.Settings.Buttons())
	}
}

func handleGetFrame(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		l, err := deps.Settings.FrameSettings(id)
		if errors.Is(err, settings.ErrUnknownFrame) {
			httpError(w, http.StatusNotFound, "not_found", "unknown frame %q", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save default layout for %s: %v", id, err)
			return
		}
		writeJSON(w, l)
	}
}

func handlePutFrameLocation(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var p settings.Point
		if !decodeBody(w, r, &p) {
			return
		}
		if err := deps.Settings.SaveFrameLocation(id, p); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save location for %s: %v", id, err)
			return
		}
		writeJSON(w, deps.Settings.Frames()[id])
	}
}

func handlePutFrameSize(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var s settings.Size
		if !decodeBody(w, r, &s) {
			return
		}
		if s.Width < 0 || s.Height < 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "size must not be negative")
			return
		}
		if err := deps.Settings.SaveFrameSize(id, s); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save size for %s: %v", id, err)
			return
		}
		writeJSON(w, deps.Settings.Frames()[id])
	}
}

func handleMinimumSize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := settings.MinimumFrameSize(id)
	if !ok {
		httpError(w, http.StatusNotFound, "not_found", "no minimum size for frame %q", id)
		return
	}
	writeJSON(w, s)
}

func handleValidateGamePath(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir := r.URL.Query().Get("path")
		if dir == "" {
			dir = deps.Settings.GamePath()
		}
		writeJSON(w, map[string]any{
			"path":  dir,
			"valid": settings.IsValidGamePath(dir),
		})
	}
}

func handleListHistory(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.History == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "history is disabled")
			return
		}
		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)

		snaps, err := deps.History.ListSnapshots(limit, offset)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list history: %v", err)
			return
		}
		if snaps == nil {
			snaps = []storage.Snapshot{}
		}
		writeJSON(w, snaps)
	}
}

func handleRestore(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.History == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "history is disabled")
			return
		}
		id := chi.URLParam(r, "id")

		snap, err := deps.History.GetSnapshot(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "snapshot not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get snapshot: %v", err)
			return
		}

		if err := deps.Settings.Restore([]byte(snap.Document)); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to restore snapshot: %v", err)
			return
		}
		deps.Logger.Info("settings restored from history", "snapshot", id)
		writeJSON(w, map[string]string{"status": "restored", "id": id})
	}
}
