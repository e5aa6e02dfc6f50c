package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"
)

// Settings are the per-user CLI preferences kept in ~/.cvstudio/config.yaml.
type Settings struct {
	OutputDir  string `mapstructure:"output_dir"`
	ChromePath string `mapstructure:"chrome_path"`
	APIURL     string `mapstructure:"api_url"`
}

// SettingKeys lists the keys accepted by "config set".
var SettingKeys = []string{"output_dir", "chrome_path", "api_url"}

const defaultSettings = `# cvstudio CLI configuration
# Directory exported files are written to
output_dir: "."
# Chrome or Chromium binary used for CV PDF export; empty means autodetect
chrome_path: ""
# Base URL of a running cvstudio API
api_url: http://localhost:8080
`

// DefaultSettingsPath returns ~/.cvstudio/config.yaml.
func DefaultSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cvstudio", "config.yaml"), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CVSTUDIO")
	v.AutomaticEnv()
	v.SetDefault("output_dir", ".")
	v.SetDefault("chrome_path", "")
	v.SetDefault("api_url", "http://localhost:8080")
	return v
}

// LoadSettings reads path, creating it with defaults when missing.
// CVSTUDIO_* environment variables override file values.
func LoadSettings(path string) (Settings, error) {
	if err := ensureSettingsFile(path); err != nil {
		return Settings{}, err
	}
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read config: %w", err)
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return s, nil
}

// SetSetting updates one key in the file at path.
func SetSetting(path, key, value string) error {
	if !slices.Contains(SettingKeys, key) {
		return fmt.Errorf("invalid key %q, must be one of %v", key, SettingKeys)
	}
	if err := ensureSettingsFile(path); err != nil {
		return err
	}
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)
	return v.WriteConfig()
}

func ensureSettingsFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(defaultSettings), 0o600)
}
