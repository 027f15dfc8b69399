/*
Package config manages TOML config for wordguard.

Values come from three layers, later ones winning:
built-in defaults, the config.toml file, and WORDGUARD_* environment
variables (optionally read from a .env file in the working directory).
*/
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordguard/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvDict   = "WORDGUARD_DICT"
	EnvCensor = "WORDGUARD_CENSOR"
	EnvMarker = "WORDGUARD_MARKER"
)

// Config holds the entire config structure
type Config struct {
	Dict    DictConfig    `toml:"dict"`
	Suggest SuggestConfig `toml:"suggest"`
	Censor  CensorConfig  `toml:"censor"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// DictConfig holds dictionary file options.
type DictConfig struct {
	SpellingPath string `toml:"spelling_path"`
	CensorPath   string `toml:"censor_path"`
	Lock         bool   `toml:"lock"`
}

// SuggestConfig holds suggestion and completion options.
type SuggestConfig struct {
	MaxDistance int `toml:"max_distance"`
	Limit       int `toml:"limit"`
}

// CensorConfig holds redaction options.
type CensorConfig struct {
	Marker string `toml:"marker"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxWordLen int  `toml:"max_word_len"`
	Watch      bool `toml:"watch"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Color bool `toml:"color"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			SpellingPath: "dictionary.txt",
			CensorPath:   "expletives.txt",
			Lock:         true,
		},
		Suggest: SuggestConfig{
			MaxDistance: 1,
			Limit:       8,
		},
		Censor: CensorConfig{
			Marker: "[CENSORED]",
		},
		Server: ServerConfig{
			MaxWordLen: 64,
			Watch:      true,
		},
		CLI: CliConfig{
			Color: true,
		},
	}
}

// GetConfigDir returns [UserConfigDir]/wordguard.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "wordguard"), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordguard/config.toml
// 3. Builtin defaults
//
// Environment overrides are applied on top in every case.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	config, path := loadFile(customConfigPath)
	ApplyEnv(config)
	return config, path, nil
}

func loadFile(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep
// their defaults, and a malformed file is salvaged section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse picks the well-typed keys out of a file whose typed
// decode failed.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "censor"); ok {
		if val, ok := utils.ExtractString(section, "marker"); ok {
			config.Censor.Marker = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "color"); ok {
			config.CLI.Color = val
		}
	}
	config.sanitize()
	return config, nil
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "spelling_path"); ok {
		dict.SpellingPath = val
	}
	if val, ok := utils.ExtractString(data, "censor_path"); ok {
		dict.CensorPath = val
	}
	if val, ok := utils.ExtractBool(data, "lock"); ok {
		dict.Lock = val
	}
}

func extractSuggestConfig(data map[string]any, sg *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "max_distance"); ok {
		sg.MaxDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		sg.Limit = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_word_len"); ok {
		server.MaxWordLen = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		server.Watch = val
	}
}

// sanitize puts out-of-range numbers and empty strings back to defaults.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Dict.SpellingPath == "" {
		c.Dict.SpellingPath = def.Dict.SpellingPath
	}
	if c.Dict.CensorPath == "" {
		c.Dict.CensorPath = def.Dict.CensorPath
	}
	if c.Suggest.MaxDistance < 1 {
		c.Suggest.MaxDistance = def.Suggest.MaxDistance
	}
	if c.Suggest.Limit < 1 {
		c.Suggest.Limit = def.Suggest.Limit
	}
	if c.Censor.Marker == "" {
		c.Censor.Marker = def.Censor.Marker
	}
	if c.Server.MaxWordLen < 1 {
		c.Server.MaxWordLen = def.Server.MaxWordLen
	}
}

// ApplyEnv loads .env from the working directory when present and applies
// WORDGUARD_* overrides. Variables already set in the process environment
// take precedence over the .env file.
func ApplyEnv(c *Config) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Ignoring unreadable .env file: %v", err)
	}
	if v := os.Getenv(EnvDict); v != "" {
		c.Dict.SpellingPath = v
	}
	if v := os.Getenv(EnvCensor); v != "" {
		c.Dict.CensorPath = v
	}
	if v := os.Getenv(EnvMarker); v != "" {
		c.Censor.Marker = v
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "built-in defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
