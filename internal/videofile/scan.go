package videofile

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"subfetch/internal/services"
)

var videoExtensions = map[string]struct{}{
	".avi":  {},
	".flv":  {},
	".m2ts": {},
	".m4v":  {},
	".mkv":  {},
	".mov":  {},
	".mp4":  {},
	".mpeg": {},
	".mpg":  {},
	".rm":   {},
	".rmvb": {},
	".ts":   {},
	".webm": {},
	".wmv":  {},
}

// IsVideo reports whether path carries a recognised video container extension.
func IsVideo(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Expand resolves every input. Directories are replaced by the video files
// found beneath them; regular files are kept regardless of extension so
// callers can fingerprint anything they name explicitly. Duplicates are dropped.
func Expand(inputs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(inputs))
	var out []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	for _, input := range inputs {
		resolved, err := Resolve(input)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(resolved)
		if err != nil {
			return nil, services.Wrap(services.ErrIO, component, "stat", resolved, err)
		}
		if !info.IsDir() {
			add(resolved)
			continue
		}
		found, err := Scan(resolved)
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			add(path)
		}
	}
	return out, nil
}

// Scan walks root and returns the canonical paths of all video files below it,
// sorted lexically. Hidden directories are skipped.
func Scan(root string) ([]string, error) {
	base, err := Resolve(root)
	if err != nil {
		return nil, err
	}
	var files []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !IsVideo(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrIO, component, "scan", base, err)
	}
	sort.Strings(files)
	return files, nil
}
