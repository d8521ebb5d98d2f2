// Package main hosts the subfetch CLI entrypoint and command graph.
//
// The Cobra command tree fingerprints local videos, asks the subtitle index for
// matching subtitles, and writes them beside each video. It also exposes the
// naming rules, download history, media inspection, and environment checks so
// users can see what a fetch would do before running it.
//
// Keep this package lean: behaviour lives in the internal packages and is only
// surfaced here through commands and flags.
package main
