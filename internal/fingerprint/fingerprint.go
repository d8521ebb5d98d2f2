package fingerprint

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"subfetch/internal/services"
)

const (
	// FullReadLimit is the size below which files are hashed in full.
	FullReadLimit = 0xf000
	// WindowSize is the length of each sampled window for larger files.
	WindowSize = 0x5000
	// HexLength is the length of a rendered fingerprint.
	HexLength = sha1.Size * 2
	// DefaultTimeout bounds ComputeTimeout when no timeout is given.
	DefaultTimeout = 30 * time.Second
)

const component = "fingerprint"

// Range is a half-open byte range [Offset, Offset+Length).
type Range struct {
	Offset int64
	Length int64
}

// Plan returns the byte ranges hashed for a file of the given size. A single
// range covering the whole file is returned below FullReadLimit.
func Plan(size int64) []Range {
	if size < FullReadLimit {
		return []Range{{Offset: 0, Length: size}}
	}
	return []Range{
		{Offset: 0, Length: WindowSize},
		{Offset: size / 3, Length: WindowSize},
		{Offset: size - WindowSize, Length: WindowSize},
	}
}

type source interface {
	io.Reader
	io.ReaderAt
	Stat() (fs.FileInfo, error)
}

// Compute returns the 40 character lowercase hex fingerprint of the file at
// path. Every filesystem failure is reported as services.ErrIO.
func Compute(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrIO, component, "open", path, err)
	}
	defer file.Close()
	return digest(file, path)
}

func digest(src source, name string) (string, error) {
	info, err := src.Stat()
	if err != nil {
		return "", services.Wrap(services.ErrIO, component, "stat", name, err)
	}
	size := info.Size()

	h := sha1.New()
	if size < FullReadLimit {
		data, err := io.ReadAll(src)
		if err != nil {
			return "", services.Wrap(services.ErrIO, component, "read", name, err)
		}
		_, _ = h.Write(data)
		return hex.EncodeToString(h.Sum(nil)), nil
	}

	window := make([]byte, WindowSize)
	for _, r := range Plan(size) {
		n, err := src.ReadAt(window, r.Offset)
		if n < len(window) {
			if err == nil || err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			msg := fmt.Sprintf("window at offset %d: got %d of %d bytes", r.Offset, n, len(window))
			return "", services.Wrap(services.ErrIO, component, "read", name+": "+msg, err)
		}
		_, _ = h.Write(window)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeTimeout wraps Compute with a deadline so a stalled filesystem cannot
// block the caller indefinitely. A non-positive timeout means DefaultTimeout. When the
// deadline fires the read keeps running in the background and its file handle
// is closed once it returns.
func ComputeTimeout(ctx context.Context, path string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		hash string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		hash, err := Compute(path)
		done <- outcome{hash: hash, err: err}
	}()

	select {
	case res := <-done:
		return res.hash, res.err
	case <-ctx.Done():
		return "", services.Wrap(services.ErrTransient, component, "compute", path, ctx.Err())
	}
}

// Valid reports whether value looks like a rendered fingerprint.
func Valid(value string) bool {
	if len(value) != HexLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
