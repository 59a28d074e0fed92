// Package builtin provides the upgrade wizards that ship with the console.
// Each one migrates the host settings file and reports the change as a
// unified diff.
package builtin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/wizard"
)

// All returns the built-in wizards in execution order.
func All() []wizard.Wizard {
	return []wizard.Wizard{
		NewSettingsKeyRename(),
		NewSettingsDefaults(),
		NewExtensionActivation(),
		NewLegacyExtensionMigration(),
	}
}

// NewRegistry returns a registry of the built-in wizards.
func NewRegistry() (*wizard.Registry, error) {
	return wizard.NewRegistry(All()...)
}

// updateSettings loads the settings, applies mutate to a copy, saves when
// anything changed, and returns the diff.
func updateSettings(ctx context.Context, env *app.Context, mutate func(app.Settings) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	before, err := env.LoadSettings()
	if err != nil {
		return "", err
	}
	after := before.Clone()
	if err := mutate(after); err != nil {
		return "", err
	}
	from, err := before.Marshal()
	if err != nil {
		return "", err
	}
	to, err := after.Marshal()
	if err != nil {
		return "", err
	}
	if string(from) == string(to) {
		return messages.BuiltinNoChanges, nil
	}
	if err := env.SaveSettings(after); err != nil {
		return "", err
	}
	return udiff.Unified(env.SettingsPath+" (before)", env.SettingsPath+" (after)", string(from), string(to)), nil
}

// argBool reads a yes/no argument given as a bool, number, or string.
func argBool(args map[string]any, key string) (bool, bool, error) {
	raw, ok := args[key]
	if !ok {
		return false, false, nil
	}
	switch value := raw.(type) {
	case bool:
		return value, true, nil
	case int64:
		return value != 0, true, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false, true, fmt.Errorf(messages.BuiltinInvalidBoolArgFmt, key, value)
		}
		return parsed, true, nil
	}
	return false, true, fmt.Errorf(messages.BuiltinInvalidBoolArgFmt, key, raw)
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
