// Package envfile reads the console's .env file, which holds machine-local
// settings such as the state database DSN that should not live in config.toml.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// Prefix is the namespace of variables the console reads.
const Prefix = "UC_"

// Load reads path and returns its UC_ variables. A missing file yields an empty map.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf(messages.EnvfileReadFileFmt, path, err)
	}
	env, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.EnvfileInvalidFmt, path, err)
	}
	return Filter(env, Prefix), nil
}

// Filter keeps only keys starting with prefix.
func Filter(env map[string]string, prefix string) map[string]string {
	filtered := make(map[string]string, len(env))
	for key, value := range env {
		if strings.HasPrefix(key, prefix) {
			filtered[key] = value
		}
	}
	return filtered
}

// Parse reads KEY=VALUE lines. Blank lines, # comments, and an "export "
// prefix are accepted; values may be single or double quoted.
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, lineNo, err)
		}
		if ok {
			env[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return env, nil
}

func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	key, value, found := strings.Cut(trimmed, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false, errors.New(messages.EnvfileExpectedKeyValue)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return key, "", true, nil
	}
	switch quote := value[0]; quote {
	case '"', '\'':
		unquoted, err := unquote(value, quote)
		if err != nil {
			return "", "", false, err
		}
		return key, unquoted, true, nil
	}
	if idx := strings.Index(value, " #"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return key, value, true, nil
}

// unquote strips matching quotes. Double-quoted values honor \" \\ and \n.
func unquote(value string, quote byte) (string, error) {
	var b strings.Builder
	for i := 1; i < len(value); i++ {
		c := value[i]
		if c == quote {
			rest := strings.TrimSpace(value[i+1:])
			if rest != "" && !strings.HasPrefix(rest, "#") {
				return "", errors.New(messages.EnvfileInvalidQuotedSuffix)
			}
			return b.String(), nil
		}
		if quote == '"' && c == '\\' && i+1 < len(value) {
			i++
			switch value[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(value[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return "", errors.New(messages.EnvfileUnterminatedQuotedValue)
}
