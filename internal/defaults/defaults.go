// Package defaults provides the embedded seed files copied into a fresh data
// directory on first run: a default soul, an empty channel-mode map, and an
// empty schedule file.
package defaults

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaultdata/*
var defaultFiles embed.FS

const embedRoot = "defaultdata"

// Seed copies every embedded default file into dir, skipping files that
// already exist there so an operator's edits are never clobbered.
func Seed(dir string) error {
	return copyDefaults(dir, false)
}

// Reset overwrites dir's seed files with the embedded defaults, discarding
// any local edits to them.
func Reset(dir string) error {
	return copyDefaults(dir, true)
}

func copyDefaults(dir string, overwrite bool) error {
	return fs.WalkDir(defaultFiles, embedRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == embedRoot {
			return nil
		}

		// Use TrimPrefix instead of filepath.Rel because embed.FS always uses
		// forward slashes, but filepath.Rel produces backslashes on Windows.
		relPath := strings.TrimPrefix(path, embedRoot+"/")
		destPath := filepath.Join(dir, relPath)

		if d.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}

		if !overwrite {
			if _, err := os.Stat(destPath); err == nil {
				return nil
			}
		}

		data, err := defaultFiles.ReadFile(path)
		if err != nil {
			return fmt.Errorf("defaults: read embedded %s: %w", path, err)
		}
		if err := os.WriteFile(destPath, data, 0644); err != nil {
			return fmt.Errorf("defaults: write %s: %w", destPath, err)
		}
		return nil
	})
}

// Get returns the content of one embedded default file by name, e.g.
// Get("soul.md").
func Get(name string) ([]byte, error) {
	return defaultFiles.ReadFile(embedRoot + "/" + name)
}

// List returns the names of all embedded default files.
func List() ([]string, error) {
	var files []string
	err := fs.WalkDir(defaultFiles, embedRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path != embedRoot {
			files = append(files, strings.TrimPrefix(path, embedRoot+"/"))
		}
		return nil
	})
	return files, err
}
