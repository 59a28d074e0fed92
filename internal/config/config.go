// Package config loads .upgrade-console/config.toml and the UC_ environment.
package config

import "time"

// Config is the console configuration.
type Config struct {
	App         AppConfig         `toml:"app"`
	Extensions  ExtensionsConfig  `toml:"extensions"`
	Upgrade     UpgradeConfig     `toml:"upgrade"`
	State       StateConfig       `toml:"state"`
	Constraints ConstraintsConfig `toml:"constraints"`
	Log         LogConfig         `toml:"log"`
}

// AppConfig describes the host application being upgraded.
type AppConfig struct {
	// Key is the host's name in extension constraint maps.
	Key string `toml:"key"`
	// Version is the currently installed host version.
	Version string `toml:"version"`
	// Settings is the host settings file, relative to the root.
	Settings string `toml:"settings"`
}

// ExtensionsConfig locates installed extensions.
type ExtensionsConfig struct {
	Paths []string `toml:"paths"`
	// ThirdPartyMarker is the path segment that marks non-core extensions.
	ThirdPartyMarker string `toml:"third_party_marker"`
}

// UpgradeConfig tunes wizard execution.
type UpgradeConfig struct {
	// Timeout bounds each worker process, e.g. "2m". Zero means none.
	Timeout string `toml:"timeout"`
}

// StateConfig selects the wizard state backend.
type StateConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
}

// ConstraintsConfig tunes extension constraint checks.
type ConstraintsConfig struct {
	// Strict turns unparsable constraints into violations.
	Strict bool `toml:"strict"`
}

// LogConfig sets logger levels.
type LogConfig struct {
	// Spec is a loggo config spec such as "<root>=INFO;uc.subprocess=DEBUG".
	Spec string `toml:"spec"`
}

// State backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Key:      "typo3",
			Version:  "11.5.0",
			Settings: "config/settings.toml",
		},
		Extensions: ExtensionsConfig{
			Paths:            []string{"typo3conf/ext", "typo3/sysext"},
			ThirdPartyMarker: "typo3conf/ext",
		},
		Upgrade: UpgradeConfig{Timeout: "0s"},
		State: StateConfig{
			Backend: BackendFile,
			Path:    DirName + "/wizards.toml",
		},
		Log: LogConfig{Spec: "<root>=WARNING"},
	}
}

// TimeoutDuration parses Upgrade.Timeout. Validate has already rejected bad values.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Upgrade.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Upgrade.Timeout)
	if err != nil {
		return 0
	}
	return d
}
