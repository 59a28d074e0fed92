package builtin

import (
	"context"
	"sort"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/wizard"
)

// Identifiers of the built-in wizards.
const (
	SettingsKeyRenameID        = "settingsKeyRename"
	SettingsDefaultsID         = "settingsDefaults"
	ExtensionActivationID      = "extensionActivation"
	LegacyExtensionMigrationID = "legacyExtensionMigration"

	// LegacyExtensionKey is the compatibility extension extensionActivation installs.
	LegacyExtensionKey = "legacy"
)

// SettingsKeyRename moves deprecated settings keys to their current names.
type SettingsKeyRename struct {
	Renames map[string]string
}

// NewSettingsKeyRename returns the wizard with the default rename table.
func NewSettingsKeyRename() *SettingsKeyRename {
	return &SettingsKeyRename{Renames: map[string]string{
		"GFX.im_path":        "GFX.processor_path",
		"GFX.im_version_5":   "GFX.processor",
		"SYS.compat_version": "SYS.compatVersion",
		"BE.lockSSL":         "BE.forceSSL",
	}}
}

func (w *SettingsKeyRename) Identifier() string { return SettingsKeyRenameID }
func (w *SettingsKeyRename) Title() string      { return messages.BuiltinKeyRenameTitle }
func (w *SettingsKeyRename) Description() string {
	return messages.BuiltinKeyRenameDescription
}

// Execute keeps an existing new key and drops the old one.
func (w *SettingsKeyRename) Execute(ctx context.Context, env *app.Context, _ map[string]any) (string, error) {
	return updateSettings(ctx, env, func(s app.Settings) error {
		for _, from := range sortedKeys(w.Renames) {
			value, ok := s.Delete(from)
			if !ok {
				continue
			}
			if _, exists := s.Get(w.Renames[from]); !exists {
				s.Set(w.Renames[from], value)
			}
		}
		return nil
	})
}

// SettingsDefaults fills settings that newer versions require.
type SettingsDefaults struct {
	Defaults map[string]any
}

// NewSettingsDefaults returns the wizard with the default values.
func NewSettingsDefaults() *SettingsDefaults {
	return &SettingsDefaults{Defaults: map[string]any{
		"SYS.trustedHostsPattern":                       "SERVER_NAME",
		"SYS.features.security.backend.enforceReferrer": true,
		"FE.cacheHash.enforceValidation":                true,
		"BE.passwordPolicy":                             "default",
	}}
}

func (w *SettingsDefaults) Identifier() string  { return SettingsDefaultsID }
func (w *SettingsDefaults) Title() string       { return messages.BuiltinDefaultsTitle }
func (w *SettingsDefaults) Description() string { return messages.BuiltinDefaultsDescription }

// Execute never overwrites a value that is already set.
func (w *SettingsDefaults) Execute(ctx context.Context, env *app.Context, _ map[string]any) (string, error) {
	return updateSettings(ctx, env, func(s app.Settings) error {
		for _, path := range sortedKeys(w.Defaults) {
			if _, exists := s.Get(path); !exists {
				s.Set(path, w.Defaults[path])
			}
		}
		return nil
	})
}

// ExtensionActivation offers to install the legacy compatibility extension.
// It is done either way once it ran; declining is a valid answer.
type ExtensionActivation struct{}

// NewExtensionActivation returns the wizard.
func NewExtensionActivation() *ExtensionActivation { return &ExtensionActivation{} }

func (w *ExtensionActivation) Identifier() string  { return ExtensionActivationID }
func (w *ExtensionActivation) Title() string       { return messages.BuiltinActivationTitle }
func (w *ExtensionActivation) Description() string { return messages.BuiltinActivationDescription }

// Confirmation implements wizard.Confirmable.
func (w *ExtensionActivation) Confirmation() wizard.Confirmation {
	return wizard.Confirmation{Question: messages.BuiltinActivationQuestion, Default: false}
}

// Execute reads "confirm", or "install" for compatibility with older scripts.
func (w *ExtensionActivation) Execute(ctx context.Context, env *app.Context, args map[string]any) (string, error) {
	install, given, err := argBool(args, "confirm")
	if err != nil {
		return "", err
	}
	if !given {
		if install, _, err = argBool(args, "install"); err != nil {
			return "", err
		}
	}
	if !install {
		return messages.BuiltinActivationDeclined, nil
	}
	return updateSettings(ctx, env, func(s app.Settings) error {
		active := s.Strings(app.ActiveExtensionsPath)
		if containsString(active, LegacyExtensionKey) {
			return nil
		}
		items := make([]any, 0, len(active)+1)
		for _, key := range active {
			items = append(items, key)
		}
		s.Set(app.ActiveExtensionsPath, append(items, LegacyExtensionKey))
		return nil
	})
}

// LegacyExtensionMigration moves legacy options under the compatibility
// extension's own table. It only applies once that extension is active.
type LegacyExtensionMigration struct{}

// NewLegacyExtensionMigration returns the wizard.
func NewLegacyExtensionMigration() *LegacyExtensionMigration { return &LegacyExtensionMigration{} }

func (w *LegacyExtensionMigration) Identifier() string { return LegacyExtensionMigrationID }
func (w *LegacyExtensionMigration) Title() string      { return messages.BuiltinLegacyTitle }
func (w *LegacyExtensionMigration) Description() string {
	return messages.BuiltinLegacyDescription
}

// Applicable implements wizard.Applicable.
func (w *LegacyExtensionMigration) Applicable(_ context.Context, env *app.Context) (bool, error) {
	settings, err := env.LoadSettings()
	if err != nil {
		return false, err
	}
	return containsString(settings.Strings(app.ActiveExtensionsPath), LegacyExtensionKey), nil
}

// Execute moves SYS.legacy* options to EXT.legacy and records the mode.
func (w *LegacyExtensionMigration) Execute(ctx context.Context, env *app.Context, _ map[string]any) (string, error) {
	moves := map[string]string{
		"SYS.legacyMode":       "EXT.legacy.mode",
		"SYS.legacyTableNames": "EXT.legacy.tableNames",
	}
	return updateSettings(ctx, env, func(s app.Settings) error {
		for _, from := range sortedKeys(moves) {
			if value, ok := s.Delete(from); ok {
				s.Set(moves[from], value)
			}
		}
		if _, ok := s.Get("EXT.legacy.mode"); !ok {
			s.Set("EXT.legacy.mode", "compat")
		}
		return nil
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
