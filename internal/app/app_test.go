package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/upgrade-console/internal/config"
	"github.com/conn-castle/upgrade-console/internal/state"
)

func TestBootstrapDefaults(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvStateDSN, "")
	root := t.TempDir()

	env, err := Bootstrap(context.Background(), Options{Root: root})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })

	assert.Equal(t, root, env.Root)
	assert.Equal(t, "11.5.0", env.Version())
	assert.Equal(t, filepath.Join(root, "config", "settings.toml"), env.SettingsPath)
	fileStore, ok := env.Store.(*state.FileStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, ".upgrade-console", "wizards.toml"), fileStore.Path)
	assert.NotNil(t, env.Extensions)
}

func TestBootstrapRequiresRoot(t *testing.T) {
	_, err := Bootstrap(context.Background(), Options{})
	assert.Error(t, err)
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, err := OpenStore(context.Background(), t.TempDir(), config.StateConfig{Backend: "redis"}, nil)
	assert.Error(t, err)
}

func TestBootstrapUsesProvidedStore(t *testing.T) {
	store := state.NewMemoryStore()
	env, err := Bootstrap(context.Background(), Options{Root: t.TempDir(), Config: config.Default(), Store: store})
	require.NoError(t, err)
	assert.Same(t, store, env.Store)
}

func TestSettingsRoundTrip(t *testing.T) {
	root := t.TempDir()
	env := &Context{Root: root, SettingsPath: filepath.Join(root, "config", "settings.toml")}

	settings, err := env.LoadSettings()
	require.NoError(t, err)
	assert.Empty(t, settings)

	settings.Set("SYS.sitename", "Example")
	settings.Set("EXT.active", []any{"news"})
	require.NoError(t, env.SaveSettings(settings))

	loaded, err := env.LoadSettings()
	require.NoError(t, err)
	value, ok := loaded.Get("SYS.sitename")
	assert.True(t, ok)
	assert.Equal(t, "Example", value)
	assert.Equal(t, []string{"news"}, loaded.Strings("EXT.active"))

	old, ok := loaded.Delete("SYS.sitename")
	assert.True(t, ok)
	assert.Equal(t, "Example", old)
	_, ok = loaded.Get("SYS.sitename")
	assert.False(t, ok)
	_, ok = loaded.Get("MISSING.key")
	assert.False(t, ok)
}

func TestSettingsClone(t *testing.T) {
	settings := Settings{"SYS": map[string]any{"list": []any{"a"}}}
	clone := settings.Clone()
	clone.Set("SYS.sitename", "changed")
	_, ok := settings.Get("SYS.sitename")
	assert.False(t, ok)
}

func TestLoadSettingsInvalid(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[SYS\n"), 0o644))
	env := &Context{SettingsPath: path}
	_, err := env.LoadSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestActiveExtensions(t *testing.T) {
	assert.Nil(t, Settings{}.ActiveExtensions())

	settings := Settings{}
	settings.Set(ActiveExtensionsPath, []any{"news", " legacy "})
	assert.Equal(t, map[string]bool{"news": true, "legacy": true}, settings.ActiveExtensions())

	settings.Set(ActiveExtensionsPath, []any{})
	assert.Equal(t, map[string]bool{}, settings.ActiveExtensions())
}

func TestReadSettingsMissingFile(t *testing.T) {
	settings, err := ReadSettings(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)
	assert.Empty(t, settings)
}
