package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/Masterminds/sprig/v3"
)

const ReloadPath = "/__sprout_reload"

const liveReloadScript = `<script>(function(){` +
	`var p=location.protocol==="https:"?"wss://":"ws://";` +
	`var ws=new WebSocket(p+location.host+"` + ReloadPath + `");` +
	`ws.onmessage=function(e){if(e.data==="reload"){location.reload();}};` +
	`})();</script>`

// Renderer reads templates from fsys on every call, so edits and deletions
// show up on the next request without a restart.
type Renderer struct {
	fsys         fs.FS
	debug        bool
	debugHeaders bool
}

func NewRenderer(fsys fs.FS, cfg Config) *Renderer {
	return &Renderer{
		fsys:         fsys,
		debug:        cfg.Debug,
		debugHeaders: cfg.DebugHeaders,
	}
}

func (r *Renderer) Funcs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	funcs["liveReload"] = func() template.HTML {
		if !r.debug {
			return ""
		}
		return template.HTML(liveReloadScript)
	}
	return funcs
}

// Execute parses and runs the named template into out.
func (r *Renderer) Execute(out io.Writer, name string, data any) error {
	contents, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q: %w", ErrTemplateNotFound, name, err)
		}
		return fmt.Errorf("error reading template %q: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(r.Funcs()).Parse(string(contents))
	if err != nil {
		return fmt.Errorf("error parsing template %q: %w", name, err)
	}

	if err := tmpl.Execute(out, data); err != nil {
		return fmt.Errorf("error executing template %q: %w", name, err)
	}
	return nil
}

// Render writes the named template as a 200 text/html response. Nothing is
// written to w when rendering fails.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.Execute(&buf, name, data); err != nil {
		return err
	}

	if r.debugHeaders {
		w.Header().Set("X-Sprout-Template", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	// The status line is already out; a failed write means the client left.
	_, _ = w.Write(buf.Bytes())
	return nil
}
