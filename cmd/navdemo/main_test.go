package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func setConfig(t *testing.T, format string) {
	t.Helper()
	prev := cfg
	cfg = Config{Format: format, Dir: t.TempDir(), LogLevel: "error"}
	t.Cleanup(func() { cfg = prev })
}

func TestRun_Scenario(t *testing.T) {
	setConfig(t, "json")

	out := execute(t, "run", "open:42", "compose:ada", "back", "back", "back", "back")

	assert.Equal(t, strings.Join([]string{
		"-> mail.inbox",
		"-> message 42",
		"-> compose to ada",
		"<- message 42",
		"<- mail.inbox",
		"transitions: 5",
		"exit",
	}, "\n")+"\n", out)
}

func TestRun_SaveResumeInspect(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			setConfig(t, format)

			out := execute(t, "run", "open:42", "compose:ada", "--save")
			assert.Contains(t, out, "-> compose to ada")

			out = execute(t, "run", "--resume", "back", "back")
			assert.Equal(t, "-> compose to ada\n<- message 42\ntransitions: 2\n", out)

			out = execute(t, "inspect")
			assert.True(t, strings.HasPrefix(out, "(navigator)\n"))
			assert.Contains(t, out, `key = "flow.mail"`)
			assert.Contains(t, out, `key = "flow.compose"`)
			assert.Contains(t, out, `to = "ada"`)
			assert.Contains(t, out, "id = 42")
		})
	}
}

func TestRun_Dot(t *testing.T) {
	setConfig(t, "json")

	out := execute(t, "run", "--dot", "open:1")

	assert.Contains(t, out, "digraph Navigation {")
	assert.Contains(t, out, `label="app (active)"`)
}

func TestRun_Errors(t *testing.T) {
	setConfig(t, "json")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "teleport"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.ErrorContains(t, cmd.Execute(), `unknown step "teleport"`)

	cmd = newRootCmd()
	cmd.SetArgs([]string{"run", "compose:x", "open:1"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.ErrorContains(t, cmd.Execute(), "mail flow is not current")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("NAVDEMO_FORMAT", "toml")
	t.Setenv("NAVDEMO_LOG_JSON", "true")

	c, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "toml", c.Format)
	assert.Equal(t, "navstate", c.Dir)
	assert.Equal(t, "info", c.LogLevel)
	assert.True(t, c.LogJSON)
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := newLogger(io.Discard, Config{LogLevel: "loud"})
	assert.Error(t, err)
}
