package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/upgrade-console/internal/envfile"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// ErrConfigValidation wraps validation failures, as opposed to TOML syntax or
// filesystem errors.
var ErrConfigValidation = errors.New("config validation failed")

// Environment variables read by Load.
const (
	EnvConfig   = "UC_CONFIG"
	EnvStateDSN = "UC_STATE_DSN"
	EnvLog      = "UC_LOG"
)

// Load resolves the config for root. The path is explicit when given,
// otherwise UC_CONFIG, otherwise the default below root. A missing default
// file yields Default(). Values from <root>/.upgrade-console/.env and then the
// process environment override the file.
func Load(root string, explicit string) (*Config, error) {
	paths := DefaultPaths(root)
	path := strings.TrimSpace(explicit)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	required := path != ""
	if !required {
		path = paths.ConfigPath
	}
	resolved, err := Resolve(root, path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigResolvePathFmt, path, err)
	}

	var cfg *Config
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if cfg, err = parse(data, resolved); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		cfg = Default()
	default:
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, resolved, err)
	}

	fileEnv, err := envfile.Load(paths.EnvPath)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(fileEnv)
	cfg.applyEnv(processEnv())

	if err := cfg.Validate(resolved); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// ParseConfig parses and validates config TOML data; source names it in errors.
func ParseConfig(data []byte, source string) (*Config, error) {
	cfg, err := parse(data, source)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// parse overlays data on Default() and rejects unknown keys.
func parse(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes data with unknown-field rejection, which
// toml.Unmarshal silently allows.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

func processEnv() map[string]string {
	env := map[string]string{}
	for _, key := range []string{EnvStateDSN, EnvLog} {
		if value, ok := os.LookupEnv(key); ok {
			env[key] = value
		}
	}
	return env
}

func (c *Config) applyEnv(env map[string]string) {
	if dsn := strings.TrimSpace(env[EnvStateDSN]); dsn != "" {
		c.State.DSN = dsn
	}
	if spec := strings.TrimSpace(env[EnvLog]); spec != "" {
		c.Log.Spec = spec
	}
}
