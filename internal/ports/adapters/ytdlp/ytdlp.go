// Package ytdlp adapts the external video source resolver (the yt-dlp
// binary) to the ports.SourceResolver contract: metadata lookup, stream
// download with progress reporting, and produced-file discovery.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cezarfpek/clipper/internal/ports"
	"github.com/cezarfpek/clipper/internal/types"
)

// stderr tail kept for diagnostics when the resolver fails.
const maxStderrBytes = 8 * 1024

// FetchError reports a resolver or network failure, or a download that
// produced no file.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch failed: %s: %v", e.Reason, e.Err)
	}
	return "fetch failed: " + e.Reason
}

func (e *FetchError) Unwrap() error { return e.Err }

// CommandRunner abstracts resolver subprocess execution for tests.
type CommandRunner interface {
	// Output runs the command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Stream runs the command, invoking onLine for every stdout line, and
	// returns the stderr tail alongside any execution error.
	Stream(ctx context.Context, name string, args []string, onLine func(string)) (stderrTail string, err error)
}

// ExecCommandRunner is the production implementation using os/exec.
type ExecCommandRunner struct{}

func (ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ee, ok := err.(*exec.ExitError); ok {
		return out, fmt.Errorf("%w: %s", err, bytes.TrimSpace(ee.Stderr))
	}
	return out, err
}

func (ExecCommandRunner) Stream(ctx context.Context, name string, args []string, onLine func(string)) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &tailWriter{buf: &stderr, limit: maxStderrBytes}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return "", err
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		onLine(scanner.Text())
	}

	waitErr := cmd.Wait()
	return strings.TrimSpace(stderr.String()), waitErr
}

// tailWriter keeps only the last limit bytes written.
type tailWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *tailWriter) Write(p []byte) (int, error) {
	n := len(p)
	w.buf.Write(p)
	if w.buf.Len() > w.limit {
		b := w.buf.Bytes()
		w.buf.Reset()
		w.buf.Write(b[len(b)-w.limit:])
	}
	return n, nil
}

// Adapter wraps the yt-dlp binary.
type Adapter struct {
	bin    string
	runner CommandRunner
	logger zerolog.Logger
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

// New creates a yt-dlp adapter. An empty binPath defaults to "yt-dlp".
func New(binPath string, opts ...Option) *Adapter {
	a := &Adapter{bin: binPath, runner: ExecCommandRunner{}, logger: zerolog.Nop()}
	if a.bin == "" {
		a.bin = "yt-dlp"
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchMetadata queries source metadata without downloading.
func (a *Adapter) FetchMetadata(ctx context.Context, url string, opts types.FetchOptions) (types.VideoMetadata, error) {
	args := []string{"--dump-json", "--no-download"}
	if opts.CookieFile != "" {
		args = append(args, "--cookies", opts.CookieFile)
	}
	args = append(args, url)

	out, err := a.runner.Output(ctx, a.bin, args...)
	if err != nil {
		return types.VideoMetadata{}, &FetchError{Reason: "metadata lookup failed", Err: err}
	}

	var meta types.VideoMetadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return types.VideoMetadata{}, &FetchError{Reason: "unreadable metadata", Err: err}
	}
	if meta.Uploader == "" {
		meta.Uploader = types.UnknownUploader
	}
	a.logger.Debug().Str("uploader", meta.Uploader).Str("id", meta.ID).Msg("metadata resolved")
	return meta, nil
}

// Download fetches the best matching stream to opts.OutputTemplate and
// returns the path of the file the resolver produced. The resolver chooses
// the extension, so the file is located by template prefix match.
func (a *Adapter) Download(ctx context.Context, url string, opts types.FetchOptions, progress types.DownloadProgressFunc) (string, error) {
	args := []string{
		"-f", opts.Format,
		"-o", opts.OutputTemplate,
		"--newline",
		"--no-playlist",
	}
	if opts.CookieFile != "" {
		args = append(args, "--cookies", opts.CookieFile)
	}
	args = append(args, url)

	emit := progress
	if emit == nil {
		emit = func(types.DownloadProgress) {}
	}

	stderrTail, err := a.runner.Stream(ctx, a.bin, args, func(line string) {
		if p, ok := ParseProgressLine(line); ok {
			emit(p)
		}
	})
	if err != nil {
		emit(types.DownloadProgress{Status: types.StatusError})
		return "", &FetchError{Reason: firstNonEmpty(stderrTail, "download failed"), Err: err}
	}
	emit(types.DownloadProgress{Status: types.StatusFinished, Percent: 100})

	path, err := locateDownload(opts.OutputTemplate)
	if err != nil {
		return "", err
	}
	a.logger.Debug().Str("path", path).Msg("download complete")
	return path, nil
}

// ParseProgressLine extracts a progress sample from one resolver output
// line. Percent, speed and ETA are best-effort; an unparseable percent
// defaults to zero.
func ParseProgressLine(line string) (types.DownloadProgress, bool) {
	if !strings.HasPrefix(line, "[download]") {
		return types.DownloadProgress{}, false
	}
	fields := strings.Fields(line)
	p := types.DownloadProgress{Status: types.StatusDownloading}
	seen := false
	for i, f := range fields {
		switch {
		case strings.HasSuffix(f, "%"):
			seen = true
			if v, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64); err == nil {
				p.Percent = v
			}
		case f == "at" && i+1 < len(fields):
			p.Speed = fields[i+1]
		case f == "ETA" && i+1 < len(fields):
			p.ETA = fields[i+1]
		}
	}
	if !seen {
		// Destination / merge notices and the like carry no figures.
		return types.DownloadProgress{}, false
	}
	return p, true
}

// locateDownload finds the file produced for a template of the form
// "<dir>/<name>.%(ext)s". Zero matches after a reported success is fatal.
func locateDownload(template string) (string, error) {
	prefix := strings.TrimSuffix(template, ".%(ext)s")
	matches, err := filepath.Glob(prefix + ".*")
	if err != nil {
		return "", &FetchError{Reason: "no file produced", Err: err}
	}
	if len(matches) == 0 {
		return "", &FetchError{Reason: "no file produced"}
	}
	sort.Strings(matches)
	return matches[0], nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ ports.SourceResolver = (*Adapter)(nil)
