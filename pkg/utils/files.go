package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// GetPathInfo returns the absolute form of relPath and its directory.
func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "resolve %s", relPath)
	}
	return fullPath, filepath.Dir(fullPath), nil
}

// OutputPath is <outDir>/<base of inPath without extension><ext>. An empty
// outDir keeps the output next to the input.
func OutputPath(inPath, outDir, ext string) string {
	base := filepath.Base(inPath)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(inPath), base)
	}
	return filepath.Join(outDir, base)
}

// WriteFile writes data to path, creating parent directories. Relative
// paths are resolved against the working directory first.
func WriteFile(path string, data []byte) error {
	fullPath, parentDir, err := GetPathInfo(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
