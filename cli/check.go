package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/fatih/color"
	"github.com/go-barry/sprout"
	"github.com/go-barry/sprout/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Render every route once and report failures",
	Flags: configFlags(),
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return err
		}
		cfg.Debug = false

		app, err := sprout.NewSite(cfg, sprout.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		if err != nil {
			return err
		}

		ok := color.New(color.FgGreen).SprintFunc()
		bad := color.New(color.FgRed).SprintFunc()

		var failed bool
		for _, route := range app.Routes() {
			if route.Method != http.MethodGet {
				continue
			}
			status, size := probe(app, route)
			if status != http.StatusOK {
				failed = true
				fmt.Fprintf(c.App.Writer, "%s %s %s → %d\n", bad("✗"), route.Method, route.Path, status)
				continue
			}
			fmt.Fprintf(c.App.Writer, "%s %s %s → %d (%d bytes)\n", ok("✓"), route.Method, route.Path, status, size)
		}

		if failed {
			return cli.Exit("some routes failed to render", 1)
		}

		fmt.Fprintln(c.App.Writer, "✅ All routes rendered successfully.")
		return nil
	},
}

func probe(app http.Handler, route core.Route) (int, int) {
	req := httptest.NewRequest(route.Method, route.Path, nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Len()
}
