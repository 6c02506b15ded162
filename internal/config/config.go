package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/anil29717/DeepDoc/internal/models"
)

const (
	configDir      = ".deepdoc"
	configFileName = "config.json"
)

// ActiveContext persists the selected conversational scope between CLI
// invocations. Kind is "document", "folder" or "" for none; at most one
// scope is ever recorded.
type ActiveContext struct {
	Kind string `json:"kind,omitempty"`
	ID   int    `json:"id,omitempty"`
}

// Config is the client-side configuration stored at
// ~/.deepdoc/config.json. The bearer token is not kept here; see the auth
// package.
type Config struct {
	APIBaseURL    string        `json:"api_base_url,omitempty"`
	ActiveContext ActiveContext `json:"active_context,omitempty"`
	User          *models.User  `json:"user,omitempty"`
}

// GetConfigPath returns the path to the config file (~/.deepdoc/config.json).
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFileName), nil
}

// LoadConfig loads the config file, returning an empty config when none
// exists yet.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
