package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. HISTSIZE in the environment overrides history_size.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("shell", cfg.Shell)
	v.SetDefault("term", cfg.Term)
	v.SetDefault("scrollback_lines", cfg.Scrollback)
	v.SetDefault("history_size", cfg.HistorySize)
	v.SetDefault("autoscroll", cfg.Autoscroll)
	v.SetDefault("word_wrap", cfg.WordWrap)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_level", cfg.LogLevel)
	if err := v.BindEnv("history_size", "HISTSIZE"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.LogFile = expandHome(cfg.LogFile)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Shell) == "" {
		return fmt.Errorf("shell must not be empty")
	}
	if strings.TrimSpace(cfg.Term) == "" {
		return fmt.Errorf("term must not be empty")
	}
	if _, ok := Themes[cfg.Theme]; !ok {
		return fmt.Errorf("unknown theme %q", cfg.Theme)
	}
	if !logLevels[cfg.LogLevel] {
		return fmt.Errorf("unsupported log_level %q", cfg.LogLevel)
	}
	if cfg.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative")
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// WriteDefault writes the default config to path and returns the path
// written.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		path = ConfigPath()
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
