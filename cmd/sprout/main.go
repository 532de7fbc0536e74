package main

import (
	"log"
	"os"

	sproutcli "github.com/go-barry/sprout/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "sprout",
		Usage: "Serve a single templated page",
		Commands: []*clilib.Command{
			sproutcli.InitCommand,
			sproutcli.RunCommand,
			sproutcli.CheckCommand,
			sproutcli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
