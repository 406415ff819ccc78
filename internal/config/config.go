// Package config loads the evcalc YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EVCalc holds all configuration for the evcalc tool.
type EVCalc struct {
	LogLevel string `yaml:"log_level"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Game data files
	Data DataConfig `yaml:"data"`

	// EV model
	Valuation Valuation `yaml:"valuation"`

	// Ranking
	Rank RankConfig `yaml:"rank"`

	// Import
	Import ImportConfig `yaml:"import"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	DBName         string        `yaml:"dbname"`
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DataConfig locates the exported game data XML files.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	Progressions string `yaml:"progressions"`
	DPSTables    string `yaml:"dps_tables"`
	Items        string `yaml:"items"`
}

// Path resolves name against Dir unless it is absolute.
func (d DataConfig) Path(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// RankConfig controls the rank command.
type RankConfig struct {
	Workers int `yaml:"workers"` // 0 means GOMAXPROCS
	Level   int `yaml:"level"`   // 0 means each item's base level
	Limit   int `yaml:"limit"`   // 0 means no limit
}

// ImportConfig controls the import command.
type ImportConfig struct {
	// MinItemLevel drops items below this base level on import.
	MinItemLevel int           `yaml:"min_item_level"`
	Force        bool          `yaml:"force"` // re-import unchanged files
	Timeout      time.Duration `yaml:"timeout"`
}

// DefaultEVCalc returns EVCalc config with sensible defaults.
func DefaultEVCalc() EVCalc {
	return EVCalc{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:           "127.0.0.1",
			Port:           5432,
			User:           "lotroev",
			Password:       "lotroev",
			DBName:         "lotroev",
			SSLMode:        "disable",
			ConnectTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			Dir:          "data",
			Progressions: "progressions.xml",
			DPSTables:    "dpsTables.xml",
			Items:        "items.xml",
		},
		Valuation: DefaultValuation(),
		Import: ImportConfig{
			Timeout: 5 * time.Minute,
		},
	}
}

// LoadEVCalc loads evcalc config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadEVCalc(path string) (EVCalc, error) {
	cfg := DefaultEVCalc()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Valuation.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}
