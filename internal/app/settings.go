package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// Settings is the host's settings document. Nested tables are addressed with
// dotted paths such as "SYS.sitename".
type Settings map[string]any

// ActiveExtensionsPath lists the keys of activated extensions.
const ActiveExtensionsPath = "EXT.active"

// LoadSettings reads the settings file. A missing file is an empty document.
func (c *Context) LoadSettings() (Settings, error) {
	return ReadSettings(c.SettingsPath)
}

// ReadSettings reads the settings document at path. A missing file is an
// empty document.
func ReadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return nil, fmt.Errorf(messages.AppReadSettingsFmt, path, err)
	}
	settings := Settings{}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf(messages.AppDecodeSettingsFmt, path, err)
	}
	return settings, nil
}

// SaveSettings replaces the settings file atomically.
func (c *Context) SaveSettings(settings Settings) error {
	data, err := settings.Marshal()
	if err != nil {
		return fmt.Errorf(messages.AppEncodeSettingsFmt, c.SettingsPath, err)
	}
	dir := filepath.Dir(c.SettingsPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.AppWriteSettingsFmt, c.SettingsPath, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.SettingsPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf(messages.AppWriteSettingsFmt, c.SettingsPath, err)
	}
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf(messages.AppWriteSettingsFmt, c.SettingsPath, err)
	}
	if err := os.Rename(tmp.Name(), c.SettingsPath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf(messages.AppWriteSettingsFmt, c.SettingsPath, err)
	}
	return nil
}

// Marshal renders the document as TOML with sorted keys.
func (s Settings) Marshal() ([]byte, error) {
	return toml.Marshal(map[string]any(s))
}

// Get returns the value at path.
func (s Settings) Get(path string) (any, bool) {
	table, key, ok := s.parent(path, false)
	if !ok {
		return nil, false
	}
	value, ok := table[key]
	return value, ok
}

// Set stores value at path, creating intermediate tables.
func (s Settings) Set(path string, value any) {
	table, key, _ := s.parent(path, true)
	table[key] = value
}

// Delete removes path and returns the old value.
func (s Settings) Delete(path string) (any, bool) {
	table, key, ok := s.parent(path, false)
	if !ok {
		return nil, false
	}
	value, ok := table[key]
	delete(table, key)
	return value, ok
}

// Clone deep-copies nested tables and lists.
func (s Settings) Clone() Settings {
	return cloneValue(map[string]any(s)).(map[string]any)
}

// Strings returns the string list at path, ignoring non-string items.
func (s Settings) Strings(path string) []string {
	value, ok := s.Get(path)
	if !ok {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// ActiveExtensions returns the activated extension keys. It returns nil when
// the document has no activation list, in which case every installed
// extension counts as active.
func (s Settings) ActiveExtensions() map[string]bool {
	if _, ok := s.Get(ActiveExtensionsPath); !ok {
		return nil
	}
	active := map[string]bool{}
	for _, key := range s.Strings(ActiveExtensionsPath) {
		active[ident.Normalize(key)] = true
	}
	return active
}

func (s Settings) parent(path string, create bool) (map[string]any, string, bool) {
	parts := strings.Split(path, ".")
	table := map[string]any(s)
	for _, part := range parts[:len(parts)-1] {
		next, ok := table[part].(map[string]any)
		if !ok {
			if !create {
				return nil, "", false
			}
			next = map[string]any{}
			table[part] = next
		}
		table = next
	}
	return table, parts[len(parts)-1], true
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}
