// Package subtitles fetches subtitle files for local videos.
//
// A fetch resolves the video path, fingerprints the file, asks the subtitle
// index for candidates keyed by that fingerprint, and writes each accepted
// candidate next to the video as {stem}_{index}_{language}.{ext}. TargetPath
// is the pure naming rule and is safe to call without a Service.
package subtitles
