package format

import (
	"fmt"
	"os"
)

// File is the result of formatting a file on disk.
type File struct {
	Path      string
	Original  []byte
	Formatted []byte
}

// Changed reports whether formatting altered the content.
func (f *File) Changed() bool {
	return string(f.Original) != string(f.Formatted)
}

// Load reads path and formats its content without touching the file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &File{
		Path:      path,
		Original:  data,
		Formatted: []byte(Format(string(data))),
	}, nil
}

// Write stores the formatted content back to disk if it differs from the
// original, keeping the file's permission bits.
func (f *File) Write() error {
	if !f.Changed() {
		return nil
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(f.Path, f.Formatted, mode); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	return nil
}

// FormatFile formats the file at path in place. It reports whether the
// content changed.
func FormatFile(path string) (bool, error) {
	f, err := Load(path)
	if err != nil {
		return false, err
	}
	if err := f.Write(); err != nil {
		return false, err
	}
	return f.Changed(), nil
}

// CheckFile reports whether the file at path is already formatted.
func CheckFile(path string) (bool, error) {
	f, err := Load(path)
	if err != nil {
		return false, err
	}
	return !f.Changed(), nil
}
