package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/version"
)

// Validate ensures the config is complete and consistent. path is used in errors.
func (c *Config) Validate(path string) error {
	if strings.TrimSpace(c.App.Key) == "" {
		return fmt.Errorf(messages.ConfigAppKeyRequiredFmt, path)
	}
	if _, err := version.Parse(c.App.Version); err != nil {
		return fmt.Errorf(messages.ConfigAppVersionInvalidFmt, path, err)
	}
	if strings.TrimSpace(c.App.Settings) == "" {
		return fmt.Errorf(messages.ConfigAppSettingsRequiredFmt, path)
	}

	for i, p := range c.Extensions.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf(messages.ConfigExtensionPathEmptyFmt, path, i)
		}
	}
	if strings.TrimSpace(c.Extensions.ThirdPartyMarker) == "" {
		return fmt.Errorf(messages.ConfigThirdPartyMarkerRequiredFmt, path)
	}

	if c.Upgrade.Timeout != "" {
		d, err := time.ParseDuration(c.Upgrade.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf(messages.ConfigTimeoutInvalidFmt, path, c.Upgrade.Timeout)
		}
	}

	switch c.State.Backend {
	case BackendFile:
		if strings.TrimSpace(c.State.Path) == "" {
			return fmt.Errorf(messages.ConfigStatePathRequiredFmt, path)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.State.DSN) == "" {
			return fmt.Errorf(messages.ConfigStateDSNRequiredFmt, path)
		}
	default:
		return fmt.Errorf(messages.ConfigStateBackendInvalidFmt, path, c.State.Backend)
	}
	return nil
}
