// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Review  ReviewConfig  `toml:"review"`
	Kana    KanaConfig    `toml:"kana"`
	Import  ImportConfig  `toml:"import"`
	Storage StorageConfig `toml:"storage"`
}

// ReviewConfig maps review-related settings.
type ReviewConfig struct {
	DailyGoal *int `toml:"daily-goal"`
}

// KanaConfig maps kana drill settings.
type KanaConfig struct {
	Mode *string `toml:"mode"`
}

// ImportConfig maps import settings.
type ImportConfig struct {
	OnDuplicate *string `toml:"on-duplicate"`
}

// StorageConfig maps storage settings.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// DefaultDailyGoal is the number of answers per day the footer counts toward.
const DefaultDailyGoal = 20

// Template is written by `benkyo config` when no config file exists yet.
const Template = `# benkyo configuration. Every key is optional.

[review]
# Answers per day shown as the goal in the review footer and stats.
# daily-goal = 20

[kana]
# hiragana, katakana or both.
# mode = "hiragana"

[import]
# ask, cover-all or skip-all.
# on-duplicate = "ask"

[storage]
# db = "~/.local/share/benkyo/benkyo.db"
`

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if g := cfg.Review.DailyGoal; g != nil && *g <= 0 {
		return FileConfig{}, fmt.Errorf("review.daily-goal must be positive, got %d", *g)
	}
	return cfg, nil
}

// EnsureTemplate writes Template to path unless a file already exists there.
func EnsureTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
