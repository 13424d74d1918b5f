package ports

import (
	"context"

	"github.com/cezarfpek/clipper/internal/types"
)

// SourceResolver fetches metadata and the binary stream for a remote video.
// Implementations report fractional download progress through the callback;
// a nil callback is valid.
type SourceResolver interface {
	// FetchMetadata queries source metadata without downloading anything.
	FetchMetadata(ctx context.Context, url string, opts types.FetchOptions) (types.VideoMetadata, error)

	// Download fetches the best matching stream to opts.OutputTemplate and
	// returns the path of the file actually produced.
	Download(ctx context.Context, url string, opts types.FetchOptions, progress types.DownloadProgressFunc) (string, error)
}

// TranscodeEngine runs the three media transform stages as synchronous
// subprocess invocations. Probe must succeed before any stage runs.
type TranscodeEngine interface {
	// Probe verifies the engine binary is invocable at all.
	Probe(ctx context.Context) error

	// Trim stream-copies the [start, start+duration) window, dropping audio.
	Trim(ctx context.Context, in, out string, start, duration float64) error

	// Resize covers and center-crops the input to exactly 1080x1920.
	Resize(ctx context.Context, in, out string) error

	// Overlay burns caption text onto the frame for [showFrom, showTo)
	// seconds of the clip.
	Overlay(ctx context.Context, in, out string, opts OverlayOptions) error
}

// OverlayOptions configures the caption burn-in.
type OverlayOptions struct {
	Text     string  // raw caption; the engine adapter escapes it
	Font     string  // font name or file; empty uses the engine default
	ShowFrom float64 // seconds from clip start
	ShowTo   float64
}
