package subtitles

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"subfetch/internal/services"
)

// DefaultExtension is used when the download URL path carries no extension.
const DefaultExtension = "srt"

// TargetPath returns where the subtitle candidate at index should be written
// for videoPath: {stem}_{index}_{language}.{extension} in the video's
// directory. The language is used verbatim. The function does not touch the
// filesystem.
func TargetPath(videoPath string, index int, info SubInfo) (string, error) {
	dir, stem, err := splitVideoPath(videoPath)
	if err != nil {
		return "", err
	}
	ext, err := SubtitleExtension(info.SURL)
	if err != nil {
		return "", err
	}
	name := stem + "_" + strconv.Itoa(index) + "_" + info.Language + "." + ext
	return filepath.Join(dir, name), nil
}

// SubtitleExtension extracts the extension of the last segment of the URL
// path, ignoring query strings and fragments. The path is read still
// percent-encoded, so "%2E" never starts an extension. DefaultExtension is
// returned when the segment has none; a segment ending in a bare dot has an
// empty extension.
func SubtitleExtension(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", services.Wrap(services.ErrURLParse, "subtitles", "parse url", rawURL, err)
	}
	if parsed.Scheme == "" {
		return "", services.Wrap(services.ErrURLParse, "subtitles", "parse url", fmt.Sprintf("%q has no scheme", rawURL), nil)
	}
	segment := parsed.EscapedPath()
	if parsed.Opaque != "" {
		segment = parsed.Opaque
	}
	if ext, ok := extension(path.Base(segment)); ok {
		return ext, nil
	}
	return DefaultExtension, nil
}

// extension mirrors file-stem rules: a leading dot starts a hidden name rather
// than an extension. A trailing dot reports an empty extension.
func extension(name string) (string, bool) {
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", false
	}
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return "", false
	}
	return name[idx+1:], true
}

func splitVideoPath(videoPath string) (string, string, error) {
	cleaned := filepath.Clean(videoPath)
	base := filepath.Base(cleaned)
	dir := filepath.Dir(cleaned)
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) || dir == cleaned {
		return "", "", services.Wrap(services.ErrInvariant, "subtitles", "target path", fmt.Sprintf("video path %q has no file name", videoPath), nil)
	}
	stem := base
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		stem = base[:idx]
	}
	if stem == "" {
		return "", "", services.Wrap(services.ErrInvariant, "subtitles", "target path", fmt.Sprintf("video path %q has no file stem", videoPath), nil)
	}
	return dir, stem, nil
}
