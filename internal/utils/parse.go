package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into config, leaving fields the file
// does not mention untouched.
func LoadTOMLFile(configPath string, config any) error {
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return err
	}
	return nil
}

// ParseTOMLWithRecovery decodes a TOML file into a loose map so callers
// can salvage whatever sections parse when strict decoding failed.
func ParseTOMLWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	loose := make(map[string]any)
	if _, err := toml.Decode(string(data), &loose); err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v", configPath, err)
		return nil, err
	}
	return loose, nil
}

// ExtractSection pulls a named table out of loosely parsed TOML
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// ExtractInt64 reads an integer key from a loose TOML table
func ExtractInt64(data map[string]any, key string) (int, bool) {
	val, ok := data[key].(int64)
	if !ok {
		return 0, false
	}
	return int(val), true
}

// ExtractBool reads a boolean key from a loose TOML table
func ExtractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}
