package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-barry/sprout"
	"github.com/go-barry/sprout/core"
	"github.com/urfave/cli/v2"
)

const DefaultConfigFile = "sprout.config.yml"

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   DefaultConfigFile,
			Usage:   "path to the YAML config file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "verbose error pages and live reload",
			EnvVars: []string{"SPROUT_DEBUG"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "bind host",
			EnvVars: []string{"SPROUT_HOST"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "bind port",
			EnvVars: []string{"SPROUT_PORT"},
		},
		&cli.StringFlag{
			Name:  "templates",
			Usage: "template directory",
		},
		&cli.StringFlag{
			Name:  "static",
			Usage: "static asset directory",
		},
	}
}

// resolveConfig loads the config file and lets explicitly set flags win.
func resolveConfig(c *cli.Context) (core.Config, error) {
	cfg, err := core.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, fmt.Errorf("failed to load config %s: %w", c.String("config"), err)
	}

	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("templates") {
		cfg.TemplateDir = c.String("templates")
	}
	if c.IsSet("static") {
		cfg.StaticDir = c.String("static")
	}
	return cfg, nil
}

var RunCommand = &cli.Command{
	Name:  "run",
	Usage: "Serve the site until interrupted",
	Flags: configFlags(),
	Action: func(c *cli.Context) error {
		cfg, err := resolveConfig(c)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		mode := "production"
		if cfg.Debug {
			mode = "debug"
		}
		ready := sprout.WithOnListen(func(addr net.Addr) {
			fmt.Printf("✅ Sprout running at http://%s (%s mode)\n", addr, mode)
		})

		return sprout.Start(ctx, cfg, ready)
	},
}
