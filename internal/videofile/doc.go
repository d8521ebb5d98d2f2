// Package videofile turns user supplied paths into canonical video paths.
//
// Resolve canonicalizes a single path (symlinks and relative segments resolved,
// always absolute). Scan expands a directory into the video files beneath it so
// batch commands can accept folders as well as files.
package videofile
