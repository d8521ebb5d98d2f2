// Package fingerprint computes the content identifier used to look up
// subtitles for a video file.
//
// The identifier is a SHA-1 digest over a fixed sample of the file rather than
// its full content, so multi-gigabyte releases hash in constant time:
//   - files shorter than 0xf000 bytes are hashed whole
//   - larger files contribute three 0x5000 byte windows taken from the start,
//     from one third of the size, and from the end, in that order
//
// Subtitle indexes key their catalogues on this exact sampling, so the
// thresholds and window placement must not change. The digest is not a
// cryptographic integrity check.
//
// Primary entry points:
//   - Compute: fingerprint a file on disk
//   - ComputeTimeout: Compute bounded by a deadline
//   - Plan: the byte ranges Compute reads for a file of a given size
package fingerprint
