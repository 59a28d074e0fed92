// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteScript writes an executable shell script with body and returns its path.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte("#!/bin/sh\n" + body + "\n")
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// WriteStubWithExit writes a worker stub that prints message to stderr and
// exits with exitCode without answering.
func WriteStubWithExit(t *testing.T, dir string, name string, message string, exitCode int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("cat >/dev/null\necho %q >&2\nexit %d", message, exitCode))
}

// WriteStubWithOutput writes a worker stub that consumes stdin, prints
// output to stdout, and exits successfully.
func WriteStubWithOutput(t *testing.T, dir string, name string, output string) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("cat >/dev/null\nprintf %%s %q", output))
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
