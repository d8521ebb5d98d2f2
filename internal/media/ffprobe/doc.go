// Package ffprobe wraps go-ffprobe with a small typed result used by
// `subfetch info`.
//
// Inspect runs the configured ffprobe binary and exposes stream counts,
// duration, container format, and the languages of subtitle tracks already
// embedded in the file.
package ffprobe
