package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// RepairDoubleExtensions renames files in dir ending in ext twice (a known
// post-processing artifact, e.g. "track.mp3.mp3") to the single-extension
// form. When a correctly named file already exists the duplicate is removed
// instead. Rename and remove errors are ignored: another worker may have
// repaired or claimed the same file in the meantime.
func RepairDoubleExtensions(dir, ext string) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*"+ext+ext))
	if err != nil {
		return
	}
	for _, path := range paths {
		fixed := strings.TrimSuffix(path, ext)
		if _, err := os.Stat(fixed); err == nil {
			_ = os.Remove(path)
			continue
		}
		_ = os.Rename(path, fixed)
	}
}
