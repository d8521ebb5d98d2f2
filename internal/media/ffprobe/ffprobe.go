package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	ffprobelib "gopkg.in/vansante/go-ffprobe.v2"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Language  string `json:"language,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Channels  int    `json:"channels,omitempty"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename        string  `json:"filename"`
	NBStreams       int     `json:"nb_streams"`
	DurationSeconds float64 `json:"duration_seconds"`
	Size            string  `json:"size"`
	BitRate         string  `json:"bit_rate"`
	FormatName      string  `json:"format_name"`
}

type probeFunc func(ctx context.Context, fileURL string, extraOpts ...string) (*ffprobelib.ProbeData, error)

var (
	probe   probeFunc = ffprobelib.ProbeURL
	binLock sync.Mutex
)

// Inspect runs ffprobe against path and converts the result. An empty binary
// keeps the library default of "ffprobe" on PATH.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	binLock.Lock()
	if binary = strings.TrimSpace(binary); binary != "" {
		ffprobelib.SetFFProbeBinPath(binary)
	}
	data, err := probe(ctx, path)
	binLock.Unlock()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	return convert(data), nil
}

func convert(data *ffprobelib.ProbeData) Result {
	var result Result
	if data == nil {
		return result
	}
	for _, stream := range data.Streams {
		if stream == nil {
			continue
		}
		codec := stream.CodecName
		if codec == "" {
			codec = stream.CodecLongName
		}
		result.Streams = append(result.Streams, Stream{
			Index:     stream.Index,
			CodecName: codec,
			CodecType: stream.CodecType,
			Language:  stream.Tags.Language,
			Width:     stream.Width,
			Height:    stream.Height,
			Channels:  stream.Channels,
		})
	}
	if data.Format != nil {
		result.Format = Format{
			Filename:        data.Format.Filename,
			NBStreams:       data.Format.NBStreams,
			DurationSeconds: data.Format.DurationSeconds,
			Size:            data.Format.Size,
			BitRate:         data.Format.BitRate,
			FormatName:      data.Format.FormatName,
		}
	}
	return result
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return r.countType(string(ffprobelib.StreamVideo))
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.countType(string(ffprobelib.StreamAudio))
}

// SubtitleStreamCount returns the number of embedded subtitle streams.
func (r Result) SubtitleStreamCount() int {
	return r.countType(string(ffprobelib.StreamSubtitle))
}

// SubtitleLanguages lists the language tags of embedded subtitle streams, in
// stream order. Untagged streams report "und".
func (r Result) SubtitleLanguages() []string {
	var langs []string
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, string(ffprobelib.StreamSubtitle)) {
			continue
		}
		lang := strings.TrimSpace(stream.Language)
		if lang == "" {
			lang = "und"
		}
		langs = append(langs, lang)
	}
	return langs
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	if r.Format.DurationSeconds < 0 {
		return 0
	}
	return r.Format.DurationSeconds
}

// FormatName returns the container format reported by ffprobe.
func (r Result) FormatName() string {
	return r.Format.FormatName
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	rate, err := strconv.ParseInt(strings.TrimSpace(r.Format.BitRate), 10, 64)
	if err != nil || rate < 0 {
		return 0
	}
	return rate
}

func (r Result) countType(kind string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			count++
		}
	}
	return count
}
