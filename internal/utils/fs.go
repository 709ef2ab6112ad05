package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DirCheckResult represents the result of dir checks
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates the directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile writes a struct out as TOML
func SaveTOMLFile(data any, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", filePath, err)
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(data)
}

// GetAbsolutePath resolves a path for display purposes.
// Never fails: unresolvable paths come back as given.
func GetAbsolutePath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}
	if !filepath.IsAbs(configPath) {
		if absPath, err := filepath.Abs(configPath); err == nil {
			return absPath
		}
	}
	return configPath
}

// testWriteAccess probes a directory with a throwaway file
func testWriteAccess(dirPath string) bool {
	probe := filepath.Join(dirPath, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	file.Close()
	os.Remove(probe)
	return true
}

// GetExecutableDir returns the directory holding the running binary.
// Used as a config location fallback when no home directory resolves.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus reports whether a directory exists (creating it when
// missing) and whether it accepts writes.
func CheckDirStatus(dirPath string) DirCheckResult {
	var result DirCheckResult
	if _, err := os.Stat(dirPath); err == nil {
		result.Exists = true
		result.Writable = testWriteAccess(dirPath)
		return result
	}
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		result.Error = err
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return result
	}
	result.Exists = true
	result.Writable = testWriteAccess(dirPath)
	return result
}
