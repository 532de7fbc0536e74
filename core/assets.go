package core

import (
	"bytes"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

const StaticPrefix = "/static/"

var minifiable = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
}

// StaticHandler serves files from a directory under StaticPrefix. Outside
// debug mode css and js are minified once per file version and kept in memory.
type StaticHandler struct {
	dir   string
	debug bool
	m     *minify.M
	cache sync.Map
}

type minified struct {
	modTime time.Time
	body    []byte
}

func NewStaticHandler(dir string, debug bool) *StaticHandler {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	return &StaticHandler{dir: dir, debug: debug, m: m}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, StaticPrefix)
	if rel == "" {
		http.NotFound(w, r)
		return
	}
	if !fs.ValidPath(rel) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	file := filepath.Join(h.dir, filepath.FromSlash(rel))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	ext := filepath.Ext(file)
	if ct := mime.TypeByExtension(ext); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	if h.debug {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, file)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	mediatype, ok := minifiable[ext]
	if !ok || strings.Contains(filepath.Base(file), ".min.") {
		http.ServeFile(w, r, file)
		return
	}

	body, err := h.minify(file, mediatype, info.ModTime())
	if err != nil {
		http.ServeFile(w, r, file)
		return
	}
	http.ServeContent(w, r, filepath.Base(file), info.ModTime(), bytes.NewReader(body))
}

func (h *StaticHandler) minify(file, mediatype string, modTime time.Time) ([]byte, error) {
	if v, ok := h.cache.Load(file); ok {
		if cached := v.(minified); cached.modTime.Equal(modTime) {
			return cached.body, nil
		}
	}

	original, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := h.m.Minify(mediatype, &buf, bytes.NewReader(original)); err != nil {
		return nil, fmt.Errorf("minify %s: %w", file, err)
	}

	h.cache.Store(file, minified{modTime: modTime, body: buf.Bytes()})
	return buf.Bytes(), nil
}
