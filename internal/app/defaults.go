package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - TIMEPAD_CONFIG_PATH: config file location (default: ~/.config/timepad.toml)
//   - TIMEPAD_STATE_DIR: directory for timepad's own state such as logs
//     (default: ~/.local/state/timepad)
//
// Neither affects where entries are stored; see timepad.ResolveDir for that.
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	stateDir, err := getStateDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"state_dir":   stateDir,
		"log_dir":     filepath.Join(stateDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking TIMEPAD_CONFIG_PATH first,
// then falling back to ~/.config/timepad.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("TIMEPAD_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "timepad.toml"), nil
}

// getStateDir returns timepad's state directory, checking TIMEPAD_STATE_DIR first,
// then falling back to the XDG default ~/.local/state/timepad.
func getStateDir() (string, error) {
	if path := os.Getenv("TIMEPAD_STATE_DIR"); path != "" {
		return path, nil
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state", "timepad"), nil
}
