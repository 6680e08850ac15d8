// Package config resolves contentbot's configuration directory and its
// optional YAML settings files.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the contentbot configuration directory.
//
// Resolution:
//   - $CONTENTBOT_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/contentbot if set (respects XDG on any platform)
//   - %AppData%/contentbot on Windows
//   - ~/.config/contentbot on macOS and Linux
func Dir() string {
	if dir := os.Getenv("CONTENTBOT_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contentbot")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "contentbot")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "contentbot")
}
