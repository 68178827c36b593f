// Package upload spools uploaded workbooks to a local directory for the
// duration of a single request.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IDGenerator produces unique file names.
type IDGenerator interface {
	NewID() (string, error)
}

// Config captures the parameters for the upload spool.
type Config struct {
	// Dir is the directory uploads are written to.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Spool writes uploads to uniquely named files under a base directory.
type Spool struct {
	dir string
	ids IDGenerator
}

// New creates the spool directory if needed and checks it is writable.
func New(cfg Config, ids IDGenerator) (*Spool, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id generator is required")
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat upload directory: %w", err)
		}
		if mkErr := os.MkdirAll(cfg.Dir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", mkErr)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("upload directory path is not a directory")
	}

	testFile := filepath.Join(cfg.Dir, ".writable_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("upload directory is not writable: %w", err)
	}
	if err := os.Remove(testFile); err != nil {
		return nil, fmt.Errorf("failed to clean up test file: %w", err)
	}

	return &Spool{dir: cfg.Dir, ids: ids}, nil
}

// File is one spooled upload. Remove must be called once the upload has
// been consumed.
type File struct {
	path string
}

// Path is the location of the spooled bytes.
func (f *File) Path() string {
	return f.path
}

// Remove deletes the spooled file. Removing an already deleted file is not
// an error.
func (f *File) Remove() error {
	if f == nil || f.path == "" {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload %s: %w", f.path, err)
	}
	return nil
}

// Save copies src into a new, uniquely named file ending in ext. On failure
// nothing is left behind.
func (s *Spool) Save(src io.Reader, ext string) (*File, error) {
	id, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("name upload: %w", err)
	}
	path := filepath.Join(s.dir, id+ext)

	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	spooled := &File{path: path}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = spooled.Remove()
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = spooled.Remove()
		return nil, fmt.Errorf("close upload file: %w", err)
	}
	return spooled, nil
}
