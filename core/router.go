package core

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// HandlerFunc is a route handler. A returned error is turned into an error
// response by the router's ErrorHandler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type Route struct {
	Method string
	Path   string
}

type Router struct {
	mu      sync.RWMutex
	routes  map[string]map[string]HandlerFunc
	onError ErrorHandler
}

func NewRouter(onError ErrorHandler) *Router {
	if onError == nil {
		onError = func(w http.ResponseWriter, r *http.Request, err error) {
			status := StatusOf(err)
			http.Error(w, http.StatusText(status), status)
		}
	}
	return &Router{
		routes:  map[string]map[string]HandlerFunc{},
		onError: onError,
	}
}

// Handle binds h to path for each method. GET implies HEAD. Binding a
// path+method pair twice fails with ErrDuplicateRoute and leaves the table
// unchanged.
func (rt *Router) Handle(path string, h HandlerFunc, methods ...string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("route %q: path must start with /", path)
	}
	if h == nil {
		return fmt.Errorf("route %q: nil handler", path)
	}
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}

	set := map[string]struct{}{}
	for _, m := range methods {
		m = strings.ToUpper(m)
		set[m] = struct{}{}
		if m == http.MethodGet {
			set[http.MethodHead] = struct{}{}
		}
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	byMethod := rt.routes[path]
	for m := range set {
		if _, exists := byMethod[m]; exists {
			return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, m, path)
		}
	}

	if byMethod == nil {
		byMethod = map[string]HandlerFunc{}
		rt.routes[path] = byMethod
	}
	for m := range set {
		byMethod[m] = h
	}
	return nil
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rt.mu.RLock()
	byMethod, ok := rt.routes[req.URL.Path]
	var h HandlerFunc
	var allow []string
	if ok {
		h = byMethod[req.Method]
		if h == nil {
			allow = allowed(byMethod)
		}
	}
	rt.mu.RUnlock()

	if !ok {
		http.NotFound(w, req)
		return
	}

	if h == nil {
		w.Header().Set("Allow", strings.Join(allow, ", "))
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h(w, req); err != nil {
		rt.onError(w, req, err)
	}
}

// Routes lists the registered bindings sorted by path, then method.
func (rt *Router) Routes() []Route {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	var out []Route
	for path, byMethod := range rt.routes {
		for m := range byMethod {
			out = append(out, Route{Method: m, Path: path})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func allowed(byMethod map[string]HandlerFunc) []string {
	methods := make([]string, 0, len(byMethod))
	for m := range byMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}
