// Package settings persists the CLI's per-user configuration.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDays = 5
	minDays     = 1
	maxDays     = 5

	appDir   = "pollenow"
	fileName = "config.yaml"

	// APIKeyEnv overrides the stored API key.
	APIKeyEnv = "POLLENOW_API_KEY"
)

// Keys accepted by Set.
const (
	KeyAPIKey     = "api_key"
	KeyDefaultZIP = "default_zip"
	KeyDays       = "days"
)

var (
	ErrNoAPIKey   = errors.New("no API key configured")
	ErrInvalidDay = fmt.Errorf("days must be a number between %d and %d", minDays, maxDays)
)

// Settings is the on-disk CLI configuration.
type Settings struct {
	APIKey     string `yaml:"api_key"`
	DefaultZIP string `yaml:"default_zip,omitempty"`
	Days       int    `yaml:"days,omitempty"`
}

// DefaultPath returns ~/.config/pollenow/config.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDir, fileName)
}

// Load reads settings from path. A missing file yields defaults.
// POLLENOW_API_KEY replaces the stored key when set.
func Load(path string) (*Settings, error) {
	s, err := Read(path)
	if err != nil {
		return nil, err
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		s.APIKey = key
	}
	return s, nil
}

// Read is Load without the environment override. Use it before Save.
func Read(path string) (*Settings, error) {
	s := &Settings{Days: DefaultDays}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if s.Days < minDays || s.Days > maxDays {
		s.Days = DefaultDays
	}
	return s, nil
}

// Save writes s to path, creating the directory. The file holds an API key
// so it is readable by the owner only.
func Save(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Exists reports whether a settings file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Set assigns one key from its string form.
func (s *Settings) Set(key, value string) error {
	switch strings.ToLower(key) {
	case KeyAPIKey:
		s.APIKey = strings.TrimSpace(value)
	case KeyDefaultZIP:
		s.DefaultZIP = strings.TrimSpace(value)
	case KeyDays:
		d, err := ParseDays(value)
		if err != nil {
			return err
		}
		s.Days = d
	default:
		return fmt.Errorf("unknown config key %q, valid keys: %s, %s, %s", key, KeyAPIKey, KeyDefaultZIP, KeyDays)
	}
	return nil
}

// ParseDays parses a day count in the supported range.
func ParseDays(value string) (int, error) {
	d, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || d < minDays || d > maxDays {
		return 0, ErrInvalidDay
	}
	return d, nil
}

// RedactedAPIKey shows only the ends of the key.
func (s *Settings) RedactedAPIKey() string {
	switch {
	case s.APIKey == "":
		return "(not set)"
	case len(s.APIKey) > 10:
		return s.APIKey[:4] + "..." + s.APIKey[len(s.APIKey)-3:]
	default:
		return "***"
	}
}
