package subtitles

import (
	"strings"

	"subfetch/internal/subtitles/xunlei"
)

// SubInfo describes one subtitle candidate offered by the index. Only SURL and
// Language influence where the subtitle is written; the remaining fields are
// informational.
type SubInfo struct {
	SURL     string `json:"surl"`
	Language string `json:"language"`
	Name     string `json:"name,omitempty"`
	Rate     string `json:"rate,omitempty"`
	Votes    int    `json:"votes,omitempty"`
	Offset   int64  `json:"offset,omitempty"`
}

func fromIndex(sub xunlei.Subtitle) SubInfo {
	return SubInfo{
		SURL:     strings.TrimSpace(sub.URL),
		Language: sub.Language,
		Name:     sub.Name,
		Rate:     sub.Rate,
		Votes:    sub.Votes,
		Offset:   sub.Offset,
	}
}

// FetchRequest selects the video to process and overrides configured defaults.
// Empty Languages and a non-positive Limit fall back to configuration.
type FetchRequest struct {
	Path      string
	Languages []string
	Limit     int
	Overwrite bool
	DryRun    bool
}

// Download is one candidate accepted for writing. Written is false for dry
// runs.
type Download struct {
	Index      int     `json:"index"`
	Subtitle   SubInfo `json:"subtitle"`
	TargetPath string  `json:"target_path"`
	Bytes      int64   `json:"bytes"`
	Written    bool    `json:"written"`
}

// SkipReason explains why a candidate was not written.
type SkipReason string

const (
	SkipExists         SkipReason = "exists"
	SkipInvalidURL     SkipReason = "invalid_url"
	SkipDownloadFailed SkipReason = "download_failed"
	SkipEmpty          SkipReason = "empty_payload"
	SkipWriteFailed    SkipReason = "write_failed"
)

// Skip records a candidate that was not written.
type Skip struct {
	Index      int        `json:"index"`
	Subtitle   SubInfo    `json:"subtitle"`
	TargetPath string     `json:"target_path,omitempty"`
	Reason     SkipReason `json:"reason"`
	Err        error      `json:"-"`
	Message    string     `json:"error,omitempty"`
}

// FetchResult summarizes one Fetch call. Available counts index candidates
// before the language filter and limit were applied.
type FetchResult struct {
	VideoPath   string     `json:"video_path"`
	Fingerprint string     `json:"fingerprint"`
	Size        int64      `json:"size"`
	Available   int        `json:"available"`
	Candidates  []SubInfo  `json:"candidates"`
	Downloads   []Download `json:"downloads"`
	Skipped     []Skip     `json:"skipped"`
}
