package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/middleware"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/diewo77/go-gestion/validation"
	"github.com/diewo77/go-gestion/view"
)

const maxBodyBytes = 1 << 20

// listResponse is the JSON shape of every paginated list.
type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

func render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = middleware.PopFlash(w, r)
	}
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	http.NotFound(w, r)
}

// storeError answers ErrNotFound with 404 and anything else with 500.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		notFound(w, r)
		return
	}
	serverError(w, r, err)
}

func invalid(w http.ResponseWriter, v validation.Violations) {
	httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
}

// redirectWithFlash ends a successful HTML form post.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, to, code string) {
	middleware.Flash(w, r, code)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func badJSON(w http.ResponseWriter, err error) {
	httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
}

func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// parseNumber accepts "1234.5", "1234,5" and "1 234,5".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	s = strings.Replace(s, ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return f, nil
}

// formFloat reads key from the parsed form. Empty means def; anything
// unparsable records invalid_number under field.
func formFloat(r *http.Request, key, field string, def float64, v validation.Violations) float64 {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return def
	}
	f, err := parseNumber(raw)
	if err != nil {
		v[field] = "invalid_number"
		return def
	}
	return f
}

func formInt(r *http.Request, key, field string, v validation.Violations) int {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v[field] = "invalid_number"
		return 0
	}
	return n
}

const dayLayout = "2006-01-02"

// parseDay parses a yyyy-mm-dd date in local time.
func parseDay(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(dayLayout, strings.TrimSpace(s), time.Local)
	return t, err == nil
}

func formText(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
