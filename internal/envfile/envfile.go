// Package envfile loads credentials from .env files.
// Variables already set in the environment take precedence.
package envfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads a .env file and sets any variables not already in the
// environment. An empty variable counts as unset. Returns nil if the file
// doesn't exist.
func Load(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	for key, value := range values {
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
	return nil
}

// LoadAll loads each path in order. Earlier files win over later ones.
func LoadAll(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := Load(path); err != nil {
			return err
		}
	}
	return nil
}
