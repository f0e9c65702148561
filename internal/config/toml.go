// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Drill  DrillConfig  `toml:"drill"`
	Course CourseConfig `toml:"course"`
	Log    LogConfig    `toml:"log"`
}

// DrillConfig maps drill-related settings.
type DrillConfig struct {
	Bins *int  `toml:"bins"`
	Hint *bool `toml:"hint"`
}

// CourseConfig maps lesson composition settings.
type CourseConfig struct {
	LessonSize    *int     `toml:"lesson-size"`
	PctErrors     *float64 `toml:"pct-errors"`
	PctRepetition *float64 `toml:"pct-repetition"`
	Decay         *float64 `toml:"decay"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

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
	return cfg, nil
}

// Template returns the commented config file written by `wordbin config`.
func Template(bins, lessonSize int, pctErrors, pctRepetition, decay float64, level string) string {
	return fmt.Sprintf(`# wordbin configuration
# Uncomment a value to enable it. CLI flags override config values.

[drill]
# bins = %d               # Learning bins per drill (2-10)
# hint = true             # Show a hint when an answer belongs to another word

[course]
# lesson-size = %d        # Words per composed lesson
# pct-errors = %.2f       # Share of a lesson taken from error-prone words (0-1)
# pct-repetition = %.2f   # Share of a lesson taken from words asked long ago (0-1)
# decay = %.2f            # Share of the old error rate kept per answer (0-1)

[log]
# level = %q          # debug, info, warn or error
`,
		bins,
		lessonSize,
		pctErrors,
		pctRepetition,
		decay,
		level,
	)
}
