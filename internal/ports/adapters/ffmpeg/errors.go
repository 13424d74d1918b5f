package ffmpeg

import (
	"fmt"
	"strings"
)

// EngineUnavailableError means the transcode engine binary could not be
// invoked at any of the probed locations.
type EngineUnavailableError struct {
	Probed []string
	Err    error
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("transcode engine unavailable (probed %s): %v", strings.Join(e.Probed, ", "), e.Err)
}

func (e *EngineUnavailableError) Unwrap() error { return e.Err }

// TrimError is a fatal trim stage failure carrying the engine diagnostic.
type TrimError struct {
	Diagnostic string
	Err        error
}

func (e *TrimError) Error() string {
	return fmt.Sprintf("trim failed: %v: %s", e.Err, e.Diagnostic)
}

func (e *TrimError) Unwrap() error { return e.Err }

// ResizeError is a fatal resize stage failure carrying the engine diagnostic.
type ResizeError struct {
	Diagnostic string
	Err        error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("resize failed: %v: %s", e.Err, e.Diagnostic)
}

func (e *ResizeError) Unwrap() error { return e.Err }

// OverlayError is an overlay stage failure. The orchestrator treats it as
// non-fatal and falls back to the pre-overlay artifact.
type OverlayError struct {
	Diagnostic string
	Err        error
}

func (e *OverlayError) Error() string {
	return fmt.Sprintf("overlay failed: %v: %s", e.Err, e.Diagnostic)
}

func (e *OverlayError) Unwrap() error { return e.Err }
