package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/sprout"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print the effective config, templates and route table",
	Flags: configFlags(),
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return err
		}
		out := c.App.Writer

		fmt.Fprintln(out, "🌐 Address:", cfg.Addr())
		fmt.Fprintln(out, "🐞 Debug:", cfg.Debug)
		fmt.Fprintln(out, "📁 Template Directory:", cfg.TemplateDir)
		fmt.Fprintln(out, "📁 Static Directory:", cfg.StaticDir)
		fmt.Fprintln(out)

		templateCount := 0
		filepath.Walk(cfg.TemplateDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				templateCount++
			}
			return nil
		})

		staticCount := 0
		filepath.Walk(cfg.StaticDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				staticCount++
			}
			return nil
		})

		fmt.Fprintln(out, "🗂️  Templates Found:", templateCount)
		fmt.Fprintln(out, "📦 Static Files Found:", staticCount)

		app, err := sprout.NewSite(cfg, sprout.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "🛣️  Routes:")
		for _, route := range app.Routes() {
			fmt.Fprintf(out, "   %-6s %s\n", route.Method, route.Path)
		}

		return nil
	},
}
