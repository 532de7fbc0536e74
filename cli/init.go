package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

//go:embed all:_starter
var starterFS embed.FS

var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Create templates/, static/ and a config file in the current directory",
	Action: func(c *cli.Context) error {
		targetDir, err := os.Getwd()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "🚀 Creating Sprout site in:", targetDir)

		written, err := copyEmbeddedDir(starterFS, "_starter", targetDir)
		if err != nil {
			return fmt.Errorf("failed to create site: %w", err)
		}
		for _, path := range written {
			fmt.Fprintln(c.App.Writer, "   +", path)
		}

		fmt.Fprintln(c.App.Writer, "✅ Site created successfully.")
		fmt.Fprintln(c.App.Writer, "▶  Run: sprout run --debug")
		return nil
	},
}

// copyEmbeddedDir copies sourceDir into targetDir. Existing files are kept.
func copyEmbeddedDir(source fs.FS, sourceDir string, targetDir string) ([]string, error) {
	var written []string
	err := fs.WalkDir(source, sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		targetPath := filepath.Join(targetDir, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, os.ModePerm)
		}

		if _, err := os.Stat(targetPath); err == nil {
			return nil
		}

		data, err := fs.ReadFile(source, path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
			return err
		}

		if err := os.WriteFile(targetPath, data, 0644); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	return written, err
}
