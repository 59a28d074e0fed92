package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteScriptIsExecutable(t *testing.T) {
	path := WriteScript(t, t.TempDir(), "ok", "exit 0")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	require.NoError(t, exec.Command(path).Run())
}

func TestWriteStubWithExit(t *testing.T) {
	path := WriteStubWithExit(t, t.TempDir(), "crash", "fatal: boom", 7)

	cmd := exec.Command(path)
	cmd.Stdin = strings.NewReader("request")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 7, exitErr.ExitCode())
	assert.Equal(t, "fatal: boom\n", stderr.String())
}

func TestWriteStubWithOutput(t *testing.T) {
	path := WriteStubWithOutput(t, t.TempDir(), "noise", "not a frame")

	cmd := exec.Command(path)
	cmd.Stdin = strings.NewReader("request")
	out, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "not a frame", string(out))
}

func TestWithWorkingDirRestores(t *testing.T) {
	dir := t.TempDir()
	before, err := os.Getwd()
	require.NoError(t, err)

	WithWorkingDir(t, dir, func() {
		cwd, err := os.Getwd()
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		assert.Equal(t, resolved, cwd)
	})

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
