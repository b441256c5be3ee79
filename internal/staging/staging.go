// Package staging provides per-call scratch directories for decoders that
// need their input on disk.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirPattern = "draft-*"

// Area is a private temporary directory holding one staged upload.
// Release removes it and everything inside; it is safe to call more than once.
type Area struct {
	dir  string
	path string
}

// Stage creates a fresh directory under root (os.TempDir() when empty) and
// writes data into it as "input"+ext. On failure nothing is left behind.
func Stage(root string, data []byte, ext string) (*Area, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o700); err != nil {
			return nil, fmt.Errorf("create staging root failed: %w", err)
		}
	}
	dir, err := os.MkdirTemp(root, dirPattern)
	if err != nil {
		return nil, fmt.Errorf("create staging dir failed: %w", err)
	}

	area := &Area{dir: dir, path: filepath.Join(dir, "input"+ext)}
	if err := os.WriteFile(area.path, data, 0o600); err != nil {
		_ = area.Release()
		return nil, fmt.Errorf("write staged file failed: %w", err)
	}
	return area, nil
}

// Path is the staged file.
func (a *Area) Path() string { return a.path }

// Dir is the directory owning the staged file.
func (a *Area) Dir() string { return a.dir }

func (a *Area) Release() error {
	if a == nil || a.dir == "" {
		return nil
	}
	if err := os.RemoveAll(a.dir); err != nil {
		return fmt.Errorf("remove staging dir failed: %w", err)
	}
	return nil
}
