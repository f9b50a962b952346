/*
Package config manages TOML config for LexServe.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/lexserve/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config directory
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Lexicon LexiconConfig `toml:"lexicon"`
	Server  ServerConfig  `toml:"server"`
	Dict    DictConfig    `toml:"dict"`
	CLI     CliConfig     `toml:"cli"`
}

// LexiconConfig holds query options.
type LexiconConfig struct {
	MaxDistance  int `toml:"max_distance"`
	DefaultLimit int `toml:"default_limit"`
	CacheSize    int `toml:"cache_size"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit    int `toml:"max_limit"`
	MaxQueryLen int `toml:"max_query_len"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path      string `toml:"path"`
	MaxWords  int    `toml:"max_words"`
	Normalize bool   `toml:"normalize"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	NoFilter     bool `toml:"no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Lexicon: LexiconConfig{
			MaxDistance:  2,
			DefaultLimit: 50,
			CacheSize:    256,
		},
		Server: ServerConfig{
			MaxLimit:    1000,
			MaxQueryLen: 60,
		},
		Dict: DictConfig{
			Path:      "data/",
			MaxWords:  0,
			Normalize: true,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
			NoFilter:     false,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/lexserve
// 2. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		primaryPath := filepath.Join(homeDir, ".config", utils.AppDir)
		if result := utils.CheckDirStatus(primaryPath); result.Writable {
			return primaryPath, nil
		}
	} else {
		log.Errorf("Failed to get home directory: %v", err)
	}
	execPath, err := os.Executable()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/lexserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
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
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return nil, err
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Missing keys keep their defaults; if the
// file does not decode into Config, each section is salvaged on its own.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	unknown, err := utils.LoadTOMLFile(configPath, config)
	if err != nil {
		return tryPartialParse(configPath)
	}
	for _, key := range unknown {
		log.Warnf("Unknown config key %q in %s", key, configPath)
	}
	return config.normalized(), nil
}

// tryPartialParse keeps every well-typed value of a config that failed a strict decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "lexicon"); ok {
		extractLexiconConfig(section, &config.Lexicon)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config.normalized(), nil
}

func extractLexiconConfig(data map[string]any, lx *LexiconConfig) {
	if val, ok := utils.ExtractInt(data, "max_distance"); ok {
		lx.MaxDistance = val
	}
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		lx.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		lx.CacheSize = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractInt(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractBool(data, "normalize"); ok {
		dict.Normalize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "no_filter"); ok {
		cli.NoFilter = val
	}
}

// normalized replaces out of range values with their defaults
func (c *Config) normalized() *Config {
	def := DefaultConfig()
	if c.Lexicon.MaxDistance < 0 {
		log.Warnf("lexicon.max_distance %d is negative, using %d", c.Lexicon.MaxDistance, def.Lexicon.MaxDistance)
		c.Lexicon.MaxDistance = def.Lexicon.MaxDistance
	}
	if c.Lexicon.DefaultLimit < 1 {
		c.Lexicon.DefaultLimit = def.Lexicon.DefaultLimit
	}
	if c.Lexicon.CacheSize < 0 {
		c.Lexicon.CacheSize = 0
	}
	if c.Server.MaxLimit < 1 {
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MaxQueryLen < 0 {
		c.Server.MaxQueryLen = 0
	}
	if c.Dict.MaxWords < 0 {
		c.Dict.MaxWords = 0
	}
	if c.CLI.DefaultLimit < 1 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
	return c
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
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the query values and saves to file
func (c *Config) Update(configPath string, maxDistance, defaultLimit, maxLimit *int) error {
	if maxDistance != nil {
		c.Lexicon.MaxDistance = *maxDistance
	}
	if defaultLimit != nil {
		c.Lexicon.DefaultLimit = *defaultLimit
	}
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	c.normalized()
	return SaveConfig(c, configPath)
}
