// Package extension discovers installed extension modules and their declared
// version constraints. It stands in for the host application's package
// registry: the rest of the console only reads from it.
package extension

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// ManifestName is the per-extension metadata file.
const ManifestName = "extension.yaml"

// Module is an installed extension. It is read-only to the console.
type Module struct {
	Key     string `yaml:"key"`
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
	// Constraints maps a dependency key (the host application key, other
	// extensions) to its declared version range, e.g. typo3: 10.4.0-11.5.99.
	Constraints map[string]string `yaml:"constraints"`
	// Path is the directory the manifest was read from.
	Path string `yaml:"-"`
}

// Constraint returns the declared range for dependency key.
func (m Module) Constraint(key string) (string, bool) {
	raw, ok := m.Constraints[key]
	return raw, ok
}

// IsThirdParty reports whether m lives below a directory containing marker,
// i.e. it is not shipped with the host's core distribution.
func (m Module) IsThirdParty(marker string) bool {
	marker = strings.Trim(filepath.ToSlash(marker), "/")
	if marker == "" {
		return false
	}
	return strings.Contains(filepath.ToSlash(m.Path)+"/", "/"+marker+"/")
}

// Registry looks up installed modules.
type Registry interface {
	// Modules returns all modules in key order.
	Modules(ctx context.Context) ([]Module, error)
	// Get returns the module for key or an ident.UnknownError.
	Get(ctx context.Context, key string) (Module, error)
}

// FileRegistry scans extension directories below Root. Each directory in
// Paths holds one sub-directory per extension with an extension.yaml manifest.
type FileRegistry struct {
	Root  string
	Paths []string

	modules map[string]Module
}

// NewFileRegistry returns a registry over root and the relative scan paths.
func NewFileRegistry(root string, paths []string) *FileRegistry {
	return &FileRegistry{Root: root, Paths: append([]string(nil), paths...)}
}

// Scan (re)reads all manifests. Missing scan directories are ignored.
func (r *FileRegistry) Scan() error {
	found := make(map[string]Module)
	for _, rel := range r.Paths {
		dir := rel
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.Root, rel)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf(messages.ExtensionScanFailedFmt, dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			extDir := filepath.Join(dir, entry.Name())
			module, ok, err := readManifest(extDir)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if existing, dup := found[module.Key]; dup {
				return fmt.Errorf(messages.ExtensionDuplicateKeyFmt, module.Key, existing.Path, module.Path)
			}
			found[module.Key] = module
		}
	}
	r.modules = found
	return nil
}

// Modules implements Registry.
func (r *FileRegistry) Modules(ctx context.Context) ([]Module, error) {
	if err := r.ensureScanned(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(r.modules))
	for key := range r.modules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Module, 0, len(keys))
	for _, key := range keys {
		out = append(out, r.modules[key])
	}
	return out, nil
}

// Get implements Registry.
func (r *FileRegistry) Get(ctx context.Context, key string) (Module, error) {
	if err := r.ensureScanned(); err != nil {
		return Module{}, err
	}
	module, ok := r.modules[ident.Normalize(key)]
	if !ok {
		return Module{}, ident.Unknown(ident.KindExtension, key)
	}
	return module, nil
}

func (r *FileRegistry) ensureScanned() error {
	if r.modules != nil {
		return nil
	}
	return r.Scan()
}

// readManifest parses dir/extension.yaml. Directories without a manifest are skipped.
func readManifest(dir string) (Module, bool, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Module{}, false, nil
		}
		return Module{}, false, fmt.Errorf(messages.ExtensionReadManifestFmt, path, err)
	}
	var module Module
	if err := yaml.Unmarshal(data, &module); err != nil {
		return Module{}, false, fmt.Errorf(messages.ExtensionInvalidManifestFmt, path, err)
	}
	module.Key = ident.Normalize(module.Key)
	if module.Key == "" {
		module.Key = filepath.Base(dir)
	}
	module.Path = dir
	return module, true, nil
}
