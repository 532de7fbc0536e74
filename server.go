package sprout

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/go-barry/sprout/core"
)

const shutdownTimeout = 5 * time.Second

// Listen opens the socket Run serves on.
var Listen = net.Listen

type Option func(*App)

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.Logger = logger }
}

func WithTemplateFS(fsys fs.FS) Option {
	return func(a *App) { a.templates = fsys }
}

func WithLiveReloader(lr core.LiveReloaderInterface) Option {
	return func(a *App) { a.reloader = lr }
}

// WithOnListen registers fn to be called with the bound address once the
// socket is open.
func WithOnListen(fn func(net.Addr)) Option {
	return func(a *App) { a.OnListen = fn }
}

// App is the application host: it owns the route table, the renderer and the
// listener configuration. Build one with New, register routes, then Run.
type App struct {
	Config   core.Config
	Logger   *slog.Logger
	OnListen func(net.Addr)

	templates fs.FS
	router    *core.Router
	renderer  *core.Renderer
	pages     *core.ErrorPages
	reloader  core.LiveReloaderInterface
	handler   http.Handler
}

func New(cfg core.Config, opts ...Option) *App {
	a := &App{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		a.Logger = core.NewLogger(os.Stderr, cfg.LogFormat, cfg.Debug)
	}
	if a.templates == nil {
		a.templates = os.DirFS(cfg.TemplateDir)
	}
	if a.reloader == nil && cfg.Debug {
		a.reloader = core.NewLiveReloader()
	}

	a.pages = &core.ErrorPages{Debug: cfg.Debug, Logger: a.Logger}
	a.router = core.NewRouter(a.pages.ServeError)
	a.renderer = core.NewRenderer(a.templates, cfg)
	a.handler = a.buildHandler()
	return a
}

func (a *App) buildHandler() http.Handler {
	mux := http.NewServeMux()

	if info, err := os.Stat(a.Config.StaticDir); err == nil && info.IsDir() {
		mux.Handle(core.StaticPrefix, core.NewStaticHandler(a.Config.StaticDir, a.Config.Debug))
		// The bare prefix goes to the router so the mux does not redirect it.
		mux.Handle(strings.TrimSuffix(core.StaticPrefix, "/"), a.router)
	}
	if a.Config.Debug && a.reloader != nil {
		mux.HandleFunc(core.ReloadPath, a.reloader.Handler)
	}
	mux.Handle("/", a.router)

	return core.AccessLog(a.Logger, a.pages.Recover(mux))
}

// Route binds h to pattern for methods, GET when none are given.
func (a *App) Route(pattern string, h core.HandlerFunc, methods ...string) error {
	return a.router.Handle(pattern, h, methods...)
}

func (a *App) Routes() []core.Route {
	return a.router.Routes()
}

func (a *App) Render(w http.ResponseWriter, name string, data any) error {
	return a.renderer.Render(w, name, data)
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Run binds the configured address and serves until ctx is done. The bind
// happens before anything else so a taken port fails immediately.
func (a *App) Run(ctx context.Context) error {
	addr := a.Config.Addr()
	ln, err := Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%w: %s: %w", core.ErrAddrInUse, addr, err)
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}

	if a.Config.Debug && a.reloader != nil {
		a.watch(ctx)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("shutdown", slog.Any("err", err))
		}
	}()

	a.Logger.Info("listening",
		slog.String("addr", ln.Addr().String()),
		slog.Bool("debug", a.Config.Debug))
	if a.OnListen != nil {
		a.OnListen(ln.Addr())
	}

	err := srv.Serve(ln)
	cancel()
	<-done
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) watch(ctx context.Context) {
	w, err := core.NewWatcher(a.reloader.BroadcastReload, a.Logger, a.Config.TemplateDir, a.Config.StaticDir)
	if err != nil {
		a.Logger.Warn("live reload disabled", slog.Any("err", err))
		return
	}
	go w.Run(ctx)
}
