package viewer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the viewer preferences persisted between runs.
type Settings struct {
	LastDir     string  `yaml:"last_dir"`
	Plane       string  `yaml:"plane"`
	ExportSize  int     `yaml:"export_size"`
	WindowWidth float64 `yaml:"window_width,omitempty"`
	WindowLevel float64 `yaml:"window_level,omitempty"`
}

// DefaultSettingsPath returns the settings file location under the
// user's config directory.
func DefaultSettingsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "dicomview", "settings.yaml"), nil
}

// LoadSettings reads settings from a YAML file. A missing file is not
// an error; it returns zero settings so first runs start clean.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &s, nil
}

// SaveSettings writes settings as YAML, creating parent directories.
func SaveSettings(s *Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
