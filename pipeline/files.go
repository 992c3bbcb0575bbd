package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// imageExt is the only extension the file stages pick up.
const imageExt = ".jpg"

// ListImages returns the names of regular .jpg files in dir (case-insensitive),
// sorted. A missing directory is logged and yields no files.
func ListImages(dir string, log *slog.Logger) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("folder does not exist", "path", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !strings.EqualFold(filepath.Ext(e.Name()), imageExt) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, e.Name())
	}

	return files, nil
}

// EnsureDirs creates each directory and its parents.
func EnsureDirs(paths ...string) error {
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return fmt.Errorf("create folder %s: %w", p, err)
		}
	}
	return nil
}

// stem strips the extension from a file name.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
