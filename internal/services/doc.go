// Package services defines shared utilities consumed by the fetch pipeline and
// the subtitle index integration.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and the video being
//     processed for logging.
//   - Structured error markers plus the Wrap helper that classify failures so
//     callers can tell retryable I/O issues from permanent input problems.
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform across commands.
package services
