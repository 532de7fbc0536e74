package sprout

import (
	"context"
	"net/http"

	"github.com/go-barry/sprout/core"
)

const IndexTemplate = "index.html"

// Index renders the home page. It reads nothing from the request.
func Index(app *App) core.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		return app.Render(w, IndexTemplate, nil)
	}
}

// NewSite builds the host with its single route, GET / -> index.html.
func NewSite(cfg core.Config, opts ...Option) (*App, error) {
	app := New(cfg, opts...)
	if err := app.Route("/", Index(app)); err != nil {
		return nil, err
	}
	return app, nil
}

// Start builds the site and serves it until ctx is done.
var Start = func(ctx context.Context, cfg core.Config, opts ...Option) error {
	app, err := NewSite(cfg, opts...)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
