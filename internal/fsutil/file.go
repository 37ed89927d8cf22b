package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file must exist and be readable.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// MoveFile moves a file, falling back to copy-and-delete when a plain
// rename fails (for example across devices).
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// EnsureDir creates a directory and all parent directories if they
// don't exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// UniquePath returns a path in the same directory as candidate that
// does not exist yet.
//
// When the candidate is free it is returned unchanged. Otherwise a
// numeric suffix is appended before the extension (`name_1.jpg`,
// `name_2.jpg`, ...) and each candidate is re-checked against the live
// directory, so the result stays correct when the output directory is
// already populated from earlier runs.
func UniquePath(candidate string) string {
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	dir := filepath.Dir(candidate)
	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(filepath.Base(candidate), ext)

	for counter := 1; ; counter++ {
		next := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if _, err := os.Stat(next); os.IsNotExist(err) {
			return next
		}
	}
}

// DirSuffix returns a directory path under destRoot named after base,
// with a numeric suffix appended when that name is already taken.
//
// Used when relocating the temporary output directories into the base
// directory at the end of a run.
func DirSuffix(destRoot, base string) string {
	candidate := filepath.Join(destRoot, base)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}
	for counter := 1; ; counter++ {
		next := filepath.Join(destRoot, fmt.Sprintf("%s_%d", base, counter))
		if _, err := os.Stat(next); os.IsNotExist(err) {
			return next
		}
	}
}
