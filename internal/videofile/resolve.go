package videofile

import (
	"os"
	"path/filepath"

	"subfetch/internal/services"
)

const component = "videofile"

var getwd = os.Getwd

// Resolve canonicalizes rawPath through the filesystem and returns an absolute
// path. The path must exist. Canonicalization keeps relative inputs relative,
// so those are joined onto the canonical working directory.
func Resolve(rawPath string) (string, error) {
	if rawPath == "" {
		return "", services.Wrap(services.ErrPathResolution, component, "resolve", "empty path", nil)
	}
	canonical, err := filepath.EvalSymlinks(rawPath)
	if err != nil {
		return "", services.Wrap(services.ErrPathResolution, component, "canonicalize", rawPath, err)
	}
	if filepath.IsAbs(canonical) {
		return canonical, nil
	}
	cwd, err := workingDir()
	if err != nil {
		return "", services.Wrap(services.ErrPathResolution, component, "working directory", rawPath, err)
	}
	return filepath.Join(cwd, canonical), nil
}

func workingDir() (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(cwd)
}
