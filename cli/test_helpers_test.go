package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func captureOutput(f func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// newTestApp wires commands to an in-memory writer and keeps cli.Exit from
// terminating the test binary.
func newTestApp(out io.Writer, commands ...*cli.Command) *cli.App {
	return &cli.App{
		Name:           "sprout",
		Commands:       commands,
		Writer:         out,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(c *cli.Context, err error) {},
	}
}

// writeSite lays out templates/ and static/ under a temp dir and returns the
// template dir, static dir and a path for a config file that does not exist.
func writeSite(t *testing.T, index string) (string, string, string) {
	t.Helper()
	root := t.TempDir()
	templates := filepath.Join(root, "templates")
	static := filepath.Join(root, "static")
	require.NoError(t, os.MkdirAll(templates, 0755))
	require.NoError(t, os.MkdirAll(static, 0755))
	if index != "" {
		require.NoError(t, os.WriteFile(filepath.Join(templates, "index.html"), []byte(index), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(static, "style.css"), []byte("body{}"), 0644))
	return templates, static, filepath.Join(root, "missing.yml")
}
