// Package ffmpeg adapts the external media transcode engine to the
// ports.TranscodeEngine contract. Each stage is one synchronous subprocess
// invocation with captured diagnostics and a non-zero-exit failure policy.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cezarfpek/clipper/internal/ports"
)

// CommandRunner abstracts subprocess execution so argument construction is
// unit-testable with a fake.
type CommandRunner interface {
	// Run executes the command and returns its combined output. The engine
	// writes diagnostics to the error stream.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec.
type ExecCommandRunner struct{}

func (ExecCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Adapter invokes the ffmpeg binary. The binary may live at more than one
// conventional location; Probe resolves which one answers.
type Adapter struct {
	primary  string
	fallback string
	resolved string
	runner   CommandRunner
	logger   zerolog.Logger
}

// Option configures the Adapter.
type Option func(*Adapter)

// WithRunner substitutes the subprocess runner (for tests).
func WithRunner(r CommandRunner) Option {
	return func(a *Adapter) { a.runner = r }
}

// WithLogger sets the adapter logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New creates an ffmpeg adapter probing primaryPath first and fallbackPath
// second. Empty paths get conventional defaults.
func New(primaryPath, fallbackPath string, opts ...Option) *Adapter {
	a := &Adapter{
		primary:  primaryPath,
		fallback: fallbackPath,
		runner:   ExecCommandRunner{},
		logger:   zerolog.Nop(),
	}
	if a.primary == "" {
		a.primary = "ffmpeg"
	}
	if a.fallback == "" {
		a.fallback = "/usr/local/bin/ffmpeg"
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Probe verifies the engine is invocable, trying the primary name and then
// the fallback location. It must succeed before any stage runs.
func (a *Adapter) Probe(ctx context.Context) error {
	var lastErr error
	for _, bin := range []string{a.primary, a.fallback} {
		_, err := a.runner.Run(ctx, bin, "-version")
		if err == nil {
			a.resolved = bin
			a.logger.Debug().Str("binary", bin).Msg("transcode engine available")
			return nil
		}
		lastErr = err
	}
	return &EngineUnavailableError{Probed: []string{a.primary, a.fallback}, Err: lastErr}
}

// Trim stream-copies the [start, start+duration) window without re-encoding,
// dropping audio and normalizing negative timestamps to zero.
func (a *Adapter) Trim(ctx context.Context, in, out string, start, duration float64) error {
	args := []string{
		"-ss", formatSeconds(start),
		"-i", in,
		"-t", formatSeconds(duration),
		"-c:v", "copy",
		"-an",
		"-avoid_negative_ts", "make_zero",
		"-y",
		out,
	}
	if diag, err := a.run(ctx, args); err != nil {
		return &TrimError{Diagnostic: diag, Err: err}
	}
	return nil
}

// Resize scales the input so its shorter dimension covers the 1080x1920
// canvas, then center-crops to exactly 1080x1920.
func (a *Adapter) Resize(ctx context.Context, in, out string) error {
	args := []string{
		"-i", in,
		"-vf", "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920",
		"-an",
		"-preset", "fast",
		"-y",
		out,
	}
	if diag, err := a.run(ctx, args); err != nil {
		return &ResizeError{Diagnostic: diag, Err: err}
	}
	return nil
}

// Overlay burns the caption onto the frame for the given time window,
// centered horizontally at 75% of frame height.
func (a *Adapter) Overlay(ctx context.Context, in, out string, opts ports.OverlayOptions) error {
	args := []string{
		"-i", in,
		"-vf", buildDrawtext(opts),
		"-an",
		"-preset", "fast",
		"-y",
		out,
	}
	if diag, err := a.run(ctx, args); err != nil {
		return &OverlayError{Diagnostic: diag, Err: err}
	}
	return nil
}

func (a *Adapter) run(ctx context.Context, args []string) (string, error) {
	bin := a.resolved
	if bin == "" {
		bin = a.primary
	}
	a.logger.Debug().Str("binary", bin).Strs("args", args).Msg("executing ffmpeg")
	b, err := a.runner.Run(ctx, bin, args...)
	if err != nil {
		return strings.TrimSpace(string(b)), err
	}
	return "", nil
}

func buildDrawtext(opts ports.OverlayOptions) string {
	var sb strings.Builder
	sb.WriteString("drawtext=text='")
	sb.WriteString(escapeDrawtext(opts.Text))
	sb.WriteString("'")
	if opts.Font != "" {
		sb.WriteString(":font='")
		sb.WriteString(escapeDrawtext(opts.Font))
		sb.WriteString("'")
	}
	sb.WriteString(":fontsize=36:fontcolor=white:x=(w-text_w)/2:y=h*0.75")
	fmt.Fprintf(&sb, ":enable='between(t,%s,%s)'", formatSeconds(opts.ShowFrom), formatSeconds(opts.ShowTo))
	return sb.String()
}

// escapeDrawtext escapes characters that are syntactically significant to
// the drawtext filter mini-language.
func escapeDrawtext(s string) string {
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, ":", `\:`)
	return s
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// ensure the adapter satisfies the engine port
var _ ports.TranscodeEngine = (*Adapter)(nil)
