package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var now = time.Now

// SafePath returns the path an artifact should be written to. An existing
// file at path is removed first; when that fails (typically because it is
// open in a spreadsheet program) a timestamped sibling is returned instead.
func SafePath(path string) (string, error) {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	if err := os.Remove(path); err == nil {
		return path, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	alt := fmt.Sprintf("%s_%s%s", base, now().Format("20060102_150405"), ext)
	if _, err := os.Lstat(alt); err == nil {
		return "", fmt.Errorf("failed to find a free name for %s", path)
	}
	return alt, nil
}

// WriteFile writes an artifact through SafePath, creating its directory.
// It returns the path actually written.
func WriteFile(path string, write func(io.Writer) error) (written string, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	target, err := SafePath(path)
	if err != nil {
		return "", err
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := write(f); err != nil {
		return "", err
	}
	return target, nil
}
