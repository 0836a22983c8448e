package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_ThenRun(t *testing.T) {
	dir := t.TempDir()

	_, stderr, err := execute(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, stderr, "verity.toml")
	assert.FileExists(t, filepath.Join(dir, "verity.toml"))
	assert.FileExists(t, filepath.Join(dir, "features", "login.scenario.toml"))

	out, _, err := execute(t, dir, "run", "--steps")
	require.NoError(t, err)
	assert.Contains(t, out, "1 scenario(s)")
	assert.Contains(t, out, "I WANT TO LOGIN")
	assert.Contains(t, out, `I fill field "user","alice"`)
}

func TestInitCmd_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "verity.toml", "# mine\n")

	_, _, err := execute(t, dir, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	data, err := os.ReadFile(filepath.Join(dir, "verity.toml"))
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	_, _, err = execute(t, dir, "init", "--force")
	require.NoError(t, err)
}
