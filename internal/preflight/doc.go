// Package preflight provides readiness checks for the filesystem paths,
// binaries, and subtitle index that subfetch depends on.
//
// `subfetch doctor` runs RunAll and renders each Result. Checks gated by a
// config toggle (ffprobe) are skipped when the feature is disabled.
package preflight
