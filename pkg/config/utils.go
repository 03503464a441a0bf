package config

import (
	"os"
	"path/filepath"
)

// FindEnvTest returns the path of the nearest file named filename, looking
// in the working directory and then each parent. Absolute paths are only
// checked for existence. An empty filename means ".env".
func FindEnvTest(filename string) (string, error) {
	if filename == "" {
		filename = ".env"
	}
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", os.ErrNotExist
		}
		return filename, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, filename)
		if _, statErr := os.Stat(path); statErr == nil {
			return path, nil
		}
		next := filepath.Dir(dir)
		if next == dir {
			return "", os.ErrNotExist
		}
		dir = next
	}
}
