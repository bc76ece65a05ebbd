package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error and existing variables are never overwritten.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
