// Package history persists fingerprints and subtitle downloads in SQLite.
//
// The store remembers which content fingerprint each video produced and every
// subtitle written for it, so repeated runs can be audited with
// `subfetch history list` and reset with `subfetch history clear`.
package history
