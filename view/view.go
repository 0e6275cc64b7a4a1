// Package view renders the HTML templates with the shared layout, partials
// and helper funcs.
package view

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/currency"
	"github.com/diewo77/go-gestion/validation"
)

var (
	baseDir  string
	once     sync.Once
	devMode  bool
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
	assetManifest     map[string]string
	assetManifestOnce sync.Once

	money         = currency.New("")
	langResolver  = func(_ *http.Request) string { return i18n.Default }
	themeResolver = func(_ *http.Request) string { return "system" }
)

// SetDev disables template caching and reloads the asset manifest on each render.
func SetDev(dev bool) { devMode = dev }

// SetCurrency sets the formatter used by the money func.
func SetCurrency(f *currency.Formatter) {
	if f != nil {
		money = f
	}
}

// SetLangResolver allows the host app to provide a custom language resolver (e.g., reading from context).
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetThemeResolver allows the host app to provide a custom theme resolver.
func SetThemeResolver(f func(*http.Request) string) {
	if f != nil {
		themeResolver = f
	}
}

// layoutBase walks upward from a template path to find the directory that contains layout.html.
// If none is found, it returns the template's own directory.
func layoutBase(mainPath string) string {
	d := filepath.Dir(mainPath)
	for {
		lp := filepath.Join(d, "layout.html")
		if fi, err := os.Stat(lp); err == nil && !fi.IsDir() {
			return d
		}
		p := filepath.Dir(d)
		if p == d {
			return filepath.Dir(mainPath)
		}
		d = p
	}
}

func detectBase() {
	for _, c := range []string{"templates", "../templates", "../../templates"} {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the func map bound to r (language, theme).
func Funcs(r *http.Request) template.FuncMap {
	lang := langResolver(r)
	theme := themeResolver(r)
	return template.FuncMap{
		"t":     func(code string) string { return i18n.T(lang, code) },
		"lang":  func() string { return lang },
		"theme": func() string { return theme },
		"money": func(v any) string {
			f, _ := toFloat64(v)
			return money.Format(f)
		},
		"num": func(v any) string {
			f, _ := toFloat64(v)
			return strconv.FormatFloat(f, 'f', -1, 64)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"mul": func(a, b any) float64 {
			fa, oka := toFloat64(a)
			fb, okb := toFloat64(b)
			if !oka || !okb {
				return 0
			}
			return fa * fb
		},
		"add": func(a, b any) float64 {
			fa, oka := toFloat64(a)
			fb, okb := toFloat64(b)
			if !oka || !okb {
				return 0
			}
			return fa + fb
		},
		// fieldErr returns the translated violation of field, if any.
		"fieldErr": func(errs validation.Violations, field string) string {
			if c, ok := errs[field]; ok {
				return i18n.T(lang, c)
			}
			return ""
		},
		"link":  link,
		"year":  func() int { return time.Now().Year() },
		"asset": func(path string) string { return resolveAsset(path) },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// link builds path?k=v&... from key/value pairs, skipping empty values.
func link(path string, kv ...any) template.URL {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		var v string
		switch x := kv[i+1].(type) {
		case string:
			v = x
		case fmt.Stringer:
			v = x.String()
		default:
			if f, ok := toFloat64(x); ok {
				v = strconv.FormatFloat(f, 'f', -1, 64)
			} else {
				v = fmt.Sprint(x)
			}
		}
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return template.URL(path)
	}
	return template.URL(path + "?" + q.Encode())
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// versionedAsset returns /static/<name>?v=<hash> for cache busting.
func versionedAsset(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") || strings.HasPrefix(rel, "//") {
		return rel
	}
	b, err := os.ReadFile(filepath.Join("static", rel))
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	return "/static/" + rel + "?v=" + fmt.Sprintf("%x", h[:8])
}

// resolveAsset prefers a hashed filename from manifest.json then falls back to query param versioning.
func resolveAsset(rel string) string {
	if devMode {
		parseManifest()
	} else {
		assetManifestOnce.Do(parseManifest)
	}
	if assetManifest != nil {
		if h, ok := assetManifest[rel]; ok {
			return "/static/" + h
		}
	}
	return versionedAsset(rel)
}

func parseManifest() {
	b, err := os.ReadFile(filepath.Join("static", "manifest.json"))
	if err != nil {
		return
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return
	}
	assetManifest = m
}

// SetBaseDir overrides the template base directory (useful for tests or custom setups).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

var partials = []string{
	"header.html",
	"errors-alert.html",
	"pagination.html",
	"stat-card.html",
	"client-fields.html",
	"article-fields.html",
}

// parse loads name with the layout and partials. Funcs are placeholders
// rebound per request in Render.
func parse(name string) (*template.Template, error) {
	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		found := false
		for _, c := range []string{
			filepath.Join("templates", name),
			filepath.Join("../templates", name),
			filepath.Join("../../templates", name),
			filepath.Join("../../../templates", name),
		} {
			if fi, e2 := os.Stat(c); e2 == nil && !fi.IsDir() {
				mainPath = c
				found = true
				break
			}
		}
		if !found {
			return nil, err
		}
	}
	base := layoutBase(mainPath)
	layoutPath := filepath.Join(base, "layout.html")
	contentBytes, err := os.ReadFile(mainPath)
	if err != nil {
		return nil, err
	}
	funcs := Funcs(&http.Request{})
	// full documents skip the layout
	if bytes.Contains(bytes.ToLower(contentBytes), []byte("<!doctype")) {
		return template.New(filepath.Base(name)).Funcs(funcs).ParseFiles(mainPath)
	}
	if fi, err := os.Stat(layoutPath); err != nil || fi.IsDir() {
		return template.New(filepath.Base(name)).Funcs(funcs).ParseFiles(mainPath)
	}
	files := []string{layoutPath, mainPath}
	for _, p := range partials {
		pp := filepath.Join(base, "partials", p)
		if pf, err := os.Stat(pp); err == nil && !pf.IsDir() {
			files = append(files, pp)
		}
	}
	return template.New("layout.html").Funcs(funcs).ParseFiles(files...)
}

func lookup(name string) (*template.Template, error) {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			return t, nil
		}
	}
	t, err := parse(name)
	if err != nil {
		return nil, err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render executes the template name (e.g. "bookings/index.html") inside the
// layout. The output is buffered so a template error never sends a partial page.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	t, err := lookup(name)
	if err != nil {
		return err
	}
	if t == nil {
		return errors.New("template not found: " + name)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	if _, exists := data["Path"]; !exists {
		data["Path"] = r.URL.Path
	}
	bound, err := t.Clone()
	if err != nil {
		return err
	}
	bound.Funcs(Funcs(r))
	var buf bytes.Buffer
	if err := bound.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
