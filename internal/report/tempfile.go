package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempFile is a rendered export waiting to be served. Close removes it.
type TempFile struct {
	*os.File
	path string
}

// WriteTempFile renders into a uniquely named file under dir and rewinds it
// for reading. The file is removed if rendering fails.
func WriteTempFile(dir string, render func(io.Writer) error) (*TempFile, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, "export-"+uuid.NewString()+".csv")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	tmp := &TempFile{File: file, path: path}

	if err := render(file); err != nil {
		tmp.Close()
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("rewind export file: %w", err)
	}

	return tmp, nil
}

func (t *TempFile) Path() string {
	return t.path
}

// Close closes and deletes the file.
func (t *TempFile) Close() error {
	closeErr := t.File.Close()
	removeErr := os.Remove(t.path)
	if closeErr != nil {
		return closeErr
	}
	if removeErr != nil && !os.IsNotExist(removeErr) {
		return removeErr
	}
	return nil
}
