package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Staging holds uploads on disk for the duration of one extraction
type Staging interface {
	Stage(name string, r io.Reader) (*StagedFile, error)
}

// StagedFile is an upload written to the staging directory
type StagedFile struct {
	Path string
	Size int64
}

// Remove deletes the staged file. Removing it twice is not an error.
func (f *StagedFile) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing staged upload: %w", err)
	}
	return nil
}

// DirStaging stages uploads in a single local directory
type DirStaging struct {
	dir string
}

// NewDirStaging creates dir if needed
func NewDirStaging(dir string) (*DirStaging, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	return &DirStaging{dir: dir}, nil
}

// Stage streams r into a new file called name. Only the last path element of
// name is used and an existing file is never overwritten.
func (d *DirStaging) Stage(name string, r io.Reader) (*StagedFile, error) {
	path := filepath.Join(d.dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("creating staged upload: %w", err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing staged upload: %w", err)
	}
	return &StagedFile{Path: path, Size: n}, nil
}
