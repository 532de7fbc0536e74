package core

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicError is what a recovered handler panic becomes before it reaches the
// error page.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

var debugPageTmpl = template.Must(template.New("debug").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ .Status }} {{ .StatusText }}</title></head>
<body>
<h1>{{ .Status }} {{ .StatusText }}</h1>
<p><code>{{ .Method }} {{ .Path }}</code></p>
<h2>Error</h2>
<pre>{{ .Message }}</pre>
{{- if .Chain }}
<h2>Cause chain</h2>
<ol>{{ range .Chain }}<li><pre>{{ . }}</pre></li>{{ end }}</ol>
{{- end }}
{{- if .Stack }}
<h2>Traceback</h2>
<pre>{{ .Stack }}</pre>
{{- end }}
</body>
</html>
`))

type debugPage struct {
	Status     int
	StatusText string
	Method     string
	Path       string
	Message    string
	Chain      []string
	Stack      string
}

// ErrorPages turns request-scoped failures into responses. With Debug set the
// body carries the error and its cause chain, plus the goroutine stack for
// panics; otherwise only the status text.
type ErrorPages struct {
	Debug  bool
	Logger *slog.Logger
}

func (p *ErrorPages) ServeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	p.logger().Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("err", err))

	if sw, ok := w.(*statusRecorder); ok && sw.wrote {
		return
	}

	if !p.Debug {
		http.Error(w, http.StatusText(status), status)
		return
	}

	page := debugPage{
		Status:     status,
		StatusText: http.StatusText(status),
		Method:     r.Method,
		Path:       r.URL.Path,
		Message:    err.Error(),
		Chain:      errorChain(err),
	}
	var pe *PanicError
	if errors.As(err, &pe) {
		page.Stack = string(pe.Stack)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = debugPageTmpl.Execute(w, page)
}

func (p *ErrorPages) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			p.ServeError(w, r, &PanicError{Value: v, Stack: debug.Stack()})
		}()
		next.ServeHTTP(w, r)
	})
}

func (p *ErrorPages) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// errorChain flattens the wrapped errors below err, depth first.
func errorChain(err error) []string {
	var chain []string
	var walk func(error)
	walk = func(e error) {
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			if next := u.Unwrap(); next != nil {
				chain = append(chain, next.Error())
				walk(next)
			}
		case interface{ Unwrap() []error }:
			for _, next := range u.Unwrap() {
				chain = append(chain, next.Error())
				walk(next)
			}
		}
	}
	walk(err)
	return chain
}
