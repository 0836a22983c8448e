package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShow_Defaults(t *testing.T) {
	out, _, err := execute(t, t.TempDir(), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Config file: none found")
	assert.Contains(t, out, "[run]")
	assert.Contains(t, out, `"**/*.scenario.toml"`)
	assert.Contains(t, out, `"asserts", "fixtures"`)
}

func TestConfigShow_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "verity.toml", "[run]\nconcurrency = 2\nformat = \"html\"\n")
	t.Setenv("VERITY_CONCURRENCY", "6")

	out, _, err := execute(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "verity.toml")
	assert.Contains(t, out, "concurrency    = 6")
	assert.Contains(t, out, `format         = "html"`)
}

func TestConfigShow_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", "[modules]\nenabled = [\"asserts\"]\n")

	out, _, err := execute(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, `enabled        = ["asserts"]`)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		wantOut string
	}{
		{name: "valid", content: "[run]\nconcurrency = 2\n", wantOut: "Configuration is valid."},
		{name: "unknown key", content: "[run]\nworkers = 2\n", wantOut: "run.workers"},
		{name: "bad module", content: "[modules]\nenabled = [\"webdriver\"]\n", wantErr: true, wantOut: "webdriver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "verity.toml", tt.content)

			out, _, err := execute(t, dir, "config", "validate")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestConfigValidate_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "verity.toml", "[run\n")

	_, _, err := execute(t, dir, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
