// Package root locates the application root the console operates on.
package root

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conn-castle/upgrade-console/internal/config"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// FindConsoleRoot walks up from start looking for a .upgrade-console directory.
func FindConsoleRoot(start string) (string, bool, error) {
	dir, err := absStart(start)
	if err != nil {
		return "", false, err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, config.DirName))
		switch {
		case err == nil:
			if !info.IsDir() {
				return "", false, fmt.Errorf(messages.RootNotDirectoryFmt, filepath.Join(dir, config.DirName))
			}
			return dir, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf(messages.RootFindFmt, config.DirName, start, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindRoot returns the console root above start, else the nearest git
// checkout, else start itself.
func FindRoot(start string) (string, error) {
	found, ok, err := FindConsoleRoot(start)
	if err != nil {
		return "", err
	}
	if ok {
		return found, nil
	}
	dir, err := absStart(start)
	if err != nil {
		return "", err
	}
	for current := dir; ; {
		info, err := os.Stat(filepath.Join(current, ".git"))
		switch {
		case err == nil:
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
			return "", fmt.Errorf(messages.RootNotDirectoryFmt, filepath.Join(current, ".git"))
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf(messages.RootFindFmt, ".git", start, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}

func absStart(start string) (string, error) {
	if start == "" {
		return "", errors.New(messages.RootStartRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf(messages.RootResolveStartFmt, start, err)
	}
	return dir, nil
}
