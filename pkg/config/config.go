/*
Package config manages TOML config for TapServe services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/softkb/tapserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Proximity ProximityConfig `toml:"proximity"`
	Server    ServerConfig    `toml:"server"`
	Debug     DebugConfig     `toml:"debug"`
}

// EngineConfig tunes the suggestion search.
type EngineConfig struct {
	TypedLetterMultiplier int  `toml:"typed_letter_multiplier"`
	FullWordMultiplier    int  `toml:"full_word_multiplier"`
	MaxErrors             int  `toml:"max_errors"`
	TwoWordErrors         int  `toml:"two_word_errors"`
	MaxWords              int  `toml:"max_words"`
	EnableSplit           bool `toml:"enable_split"`
	EnableCompletion      bool `toml:"enable_completion"`
}

// ProximityConfig tunes the touch model grid.
type ProximityConfig struct {
	GridWidth  int `toml:"grid_width"`
	GridHeight int `toml:"grid_height"`
	ListWidth  int `toml:"list_width"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

// DebugConfig toggles verbose diagnostics per subsystem.
type DebugConfig struct {
	Dict      bool `toml:"dict"`
	Proximity bool `toml:"proximity"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "tapserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "tapserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
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
// 2. Default path: [UserConfigDir]/tapserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			TypedLetterMultiplier: 2,
			FullWordMultiplier:    2,
			MaxErrors:             2,
			TwoWordErrors:         1,
			MaxWords:              18,
			EnableSplit:           true,
			EnableCompletion:      true,
		},
		Proximity: ProximityConfig{
			GridWidth:  32,
			GridHeight: 16,
			ListWidth:  16,
		},
		Server: ServerConfig{
			DefaultLimit: 18,
			MaxLimit:     18,
		},
		Debug: DebugConfig{},
	}
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

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if engineSection, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(engineSection, &config.Engine)
	}
	if proximitySection, ok := utils.ExtractSection(tempConfig, "proximity"); ok {
		extractProximityConfig(proximitySection, &config.Proximity)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if debugSection, ok := utils.ExtractSection(tempConfig, "debug"); ok {
		extractDebugConfig(debugSection, &config.Debug)
	}
	return config, nil
}

// extractEngineConfig extracts engine configuration from a map
func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "typed_letter_multiplier"); ok {
		engine.TypedLetterMultiplier = val
	}
	if val, ok := utils.ExtractInt64(data, "full_word_multiplier"); ok {
		engine.FullWordMultiplier = val
	}
	if val, ok := utils.ExtractInt64(data, "max_errors"); ok {
		engine.MaxErrors = val
	}
	if val, ok := utils.ExtractInt64(data, "two_word_errors"); ok {
		engine.TwoWordErrors = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		engine.MaxWords = val
	}
	if val, ok := utils.ExtractBool(data, "enable_split"); ok {
		engine.EnableSplit = val
	}
	if val, ok := utils.ExtractBool(data, "enable_completion"); ok {
		engine.EnableCompletion = val
	}
}

// extractProximityConfig extracts proximity grid configuration from a map
func extractProximityConfig(data map[string]any, prox *ProximityConfig) {
	if val, ok := utils.ExtractInt64(data, "grid_width"); ok {
		prox.GridWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "grid_height"); ok {
		prox.GridHeight = val
	}
	if val, ok := utils.ExtractInt64(data, "list_width"); ok {
		prox.ListWidth = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
}

// extractDebugConfig extracts debug toggles from a map
func extractDebugConfig(data map[string]any, debug *DebugConfig) {
	if val, ok := utils.ExtractBool(data, "dict"); ok {
		debug.Dict = val
	}
	if val, ok := utils.ExtractBool(data, "proximity"); ok {
		debug.Proximity = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
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

// Update changes the engine values and saves to file
func (c *Config) Update(configPath string, maxErrors, maxWords *int, enableSplit, enableCompletion *bool) error {
	engine := &c.Engine
	if maxErrors != nil {
		engine.MaxErrors = *maxErrors
	}
	if maxWords != nil {
		engine.MaxWords = *maxWords
	}
	if enableSplit != nil {
		engine.EnableSplit = *enableSplit
	}
	if enableCompletion != nil {
		engine.EnableCompletion = *enableCompletion
	}
	return SaveConfig(c, configPath)
}
