package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestCheckCommand_RendersIndex(t *testing.T) {
	templates, static, missing := writeSite(t, "<h1>ok</h1>")

	var out bytes.Buffer
	err := newTestApp(&out, CheckCommand).Run([]string{
		"sprout", "check", "--config", missing, "--templates", templates, "--static", static,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "GET / → 200 (11 bytes)")
	assert.Contains(t, out.String(), "All routes rendered successfully.")
}

func TestCheckCommand_MissingTemplate(t *testing.T) {
	templates, static, missing := writeSite(t, "")

	var out bytes.Buffer
	err := newTestApp(&out, CheckCommand).Run([]string{
		"sprout", "check", "--config", missing, "--templates", templates, "--static", static,
	})

	assert.Contains(t, out.String(), "GET / → 500")
	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok, "expected cli.Exit, got %v", err)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestCheckCommand_ParseError(t *testing.T) {
	templates, static, missing := writeSite(t, "{{ if }}")

	var out bytes.Buffer
	err := newTestApp(&out, CheckCommand).Run([]string{
		"sprout", "check", "--config", missing, "--templates", templates, "--static", static, "--debug",
	})

	assert.Contains(t, out.String(), "GET / → 500")
	assert.NotContains(t, out.String(), "Traceback")
	_, ok := err.(cli.ExitCoder)
	assert.True(t, ok)
}
