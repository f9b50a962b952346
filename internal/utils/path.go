package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppDir is the directory name used under the platform config location
const AppDir = "lexserve"

// PathResolver resolves data and config locations relative to the running binary
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		configDir:     platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppDir)
		}
		return filepath.Join(homeDir, ".config", AppDir)
	case "darwin":
		return filepath.Join(homeDir, ".config", AppDir)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDir)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppDir)
	default:
		return filepath.Join(homeDir, "."+AppDir)
	}
}

// GetDataDir resolves the directory holding dictionary files.
// Candidates in order: the path itself, relative to the executable, relative to the
// working directory, then <exec>/data and <config>/data.
func (pr *PathResolver) GetDataDir(userSpecifiedPath string) string {
	candidates := []string{}
	if filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates, userSpecifiedPath)
	} else {
		candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
		}
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(pr.configDir, "data"),
	)

	for _, path := range candidates {
		if IsDictionaryDir(path) {
			log.Debugf("Found dictionary directory: %s", path)
			return path
		}
		log.Debugf("Dictionary directory candidate not valid: %s", path)
	}
	// most likely location, for error reporting by the loader
	return candidates[0]
}

// IsDictionaryDir reports whether path is a directory with at least one dictionary file
func IsDictionaryDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	for _, pattern := range []string{"dict_*.bin", "*.txt", "*.tsv"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}
