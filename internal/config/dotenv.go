package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file into the process environment if one
// exists. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
