package config

import (
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// DirName is the console's directory below the application root.
const DirName = ".upgrade-console"

// Paths holds resolved paths for a root.
type Paths struct {
	Root       string
	Dir        string
	ConfigPath string
	EnvPath    string
}

// DefaultPaths returns the default paths for root.
func DefaultPaths(root string) Paths {
	dir := filepath.Join(root, DirName)
	return Paths{
		Root:       root,
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "config.toml"),
		EnvPath:    filepath.Join(dir, ".env"),
	}
}

// Resolve expands ~ and makes relative paths absolute against root.
func Resolve(root string, path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(trimmed)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Join(root, expanded), nil
}
