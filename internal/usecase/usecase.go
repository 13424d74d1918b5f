// Package usecase sequences the clip pipeline stages: resolve, download,
// trim, resize, overlay, cleanup. Stage collaborators are injected so the
// whole flow is testable with fakes.
package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cezarfpek/clipper/internal/ports"
	"github.com/cezarfpek/clipper/internal/timecode"
	"github.com/cezarfpek/clipper/internal/types"
	"github.com/cezarfpek/clipper/internal/workspace"
)

const (
	cookieFileName  = "cookies.txt"
	downloadName    = "source.%(ext)s"
	trimmedName     = "trimmed.mp4"
	resizedName     = "resized.mp4"
	finalName       = "final.mp4"
	captionDuration = 1.0 // caption shows for the final second of the clip
)

// Deps are the external collaborators of one pipeline run.
type Deps struct {
	Resolver ports.SourceResolver
	Engine   ports.TranscodeEngine
	Logger   zerolog.Logger
}

// Usecase drives the stages of a single run strictly sequentially.
type Usecase struct{ d Deps }

// New creates a Usecase with the given collaborators.
func New(d Deps) Usecase { return Usecase{d: d} }

// Input is one validated clip extraction request. Start and End are in
// seconds and must already satisfy End > Start.
type Input struct {
	URL     string
	Cookies string // optional cookie-jar content, verbatim
	Start   float64
	End     float64

	Workspace *workspace.Workspace

	Format   string // resolver format preference
	Font     string // overlay font; empty uses the engine default
	Platform string // attribution platform label

	// OutputPath, when set, is where the final artifact is moved so the
	// whole workspace can be destroyed. When empty the artifact stays
	// inside the workspace and cleanup skips it.
	OutputPath string

	Progress types.ProgressFunc
}

// Result is the terminal outcome of a successful run.
type Result struct {
	FinalPath string
	Meta      types.VideoMetadata

	// Degraded is true when the overlay stage failed and the resized
	// artifact was used as the final output.
	Degraded bool
}

// Run executes the pipeline. Cleanup of intermediate artifacts is
// unconditional: it happens on every exit path, success or failure, and its
// own failures are swallowed by the workspace.
func (u Usecase) Run(ctx context.Context, in Input) (res Result, err error) {
	duration := in.End - in.Start
	if duration <= 0 {
		return Result{}, &timecode.InvalidRangeError{Start: in.Start, End: in.End}
	}

	keep := ""
	defer func() {
		u.emit(in.Progress, types.StageCleaning, types.FractionUnknown, "removing intermediate files")
		in.Workspace.Destroy(keep)
		if err != nil {
			u.emit(in.Progress, types.StageErrored, types.FractionUnknown, err.Error())
		} else {
			u.emit(in.Progress, types.StageDone, 1, fmt.Sprintf("clip ready (%.1fs)", duration))
		}
	}()

	opts := types.FetchOptions{
		Format:         in.Format,
		OutputTemplate: in.Workspace.Path(downloadName),
	}
	if in.Cookies != "" {
		cookiePath := in.Workspace.Path(cookieFileName)
		if werr := os.WriteFile(cookiePath, []byte(in.Cookies), 0o600); werr != nil {
			return Result{}, fmt.Errorf("materialize cookies: %w", werr)
		}
		opts.CookieFile = cookiePath
	}

	u.emit(in.Progress, types.StageResolving, types.FractionUnknown, "resolving source metadata")
	meta, err := u.d.Resolver.FetchMetadata(ctx, in.URL, opts)
	if err != nil {
		return Result{}, err
	}
	res.Meta = meta
	u.d.Logger.Info().Str("uploader", meta.Uploader).Msg("source resolved")

	u.emit(in.Progress, types.StageDownloading, 0, "starting download")
	rawPath, err := u.d.Resolver.Download(ctx, in.URL, opts, u.downloadProgress(in.Progress))
	if err != nil {
		return Result{}, err
	}

	// Verify the engine is invocable before the first transcode stage.
	if err = u.d.Engine.Probe(ctx); err != nil {
		return Result{}, err
	}

	trimmed := in.Workspace.Path(trimmedName)
	u.emit(in.Progress, types.StageTrimming, types.FractionUnknown, "trimming clip window")
	if err = u.d.Engine.Trim(ctx, rawPath, trimmed, in.Start, duration); err != nil {
		return Result{}, err
	}

	resized := in.Workspace.Path(resizedName)
	u.emit(in.Progress, types.StageResizing, types.FractionUnknown, "rendering 1080x1920 canvas")
	if err = u.d.Engine.Resize(ctx, trimmed, resized); err != nil {
		return Result{}, err
	}

	final := in.Workspace.Path(finalName)
	u.emit(in.Progress, types.StageOverlaying, types.FractionUnknown, "burning attribution caption")
	caption := fmt.Sprintf("credits: %s on %s", meta.Uploader, in.Platform)
	showFrom := duration - captionDuration
	if showFrom < 0 {
		showFrom = 0
	}
	overlayErr := u.d.Engine.Overlay(ctx, resized, final, ports.OverlayOptions{
		Text:     caption,
		Font:     in.Font,
		ShowFrom: showFrom,
		ShowTo:   duration,
	})
	if overlayErr != nil {
		// Degraded success: fall back to the pre-overlay artifact.
		u.d.Logger.Warn().Err(overlayErr).Msg("credits overlay failed, proceeding without credits")
		u.emit(in.Progress, types.StageOverlaying, types.FractionUnknown, "credits overlay failed, proceeding without credits")
		final = resized
		res.Degraded = true
	}

	if in.OutputPath != "" {
		if err = relocate(final, in.OutputPath); err != nil {
			return Result{}, fmt.Errorf("move final artifact: %w", err)
		}
		final = in.OutputPath
	} else {
		keep = final
	}

	res.FinalPath = final
	return res, nil
}

// downloadProgress maps resolver progress samples onto pipeline events.
func (u Usecase) downloadProgress(fn types.ProgressFunc) types.DownloadProgressFunc {
	return func(p types.DownloadProgress) {
		switch p.Status {
		case types.StatusDownloading:
			frac := p.Percent / 100
			if frac < 0 || frac > 1 {
				frac = types.FractionUnknown
			}
			msg := "downloading"
			if p.Speed != "" {
				msg = fmt.Sprintf("downloading at %s, ETA %s", p.Speed, p.ETA)
			}
			u.emit(fn, types.StageDownloading, frac, msg)
		case types.StatusFinished:
			u.emit(fn, types.StageDownloading, 1, "download complete")
		case types.StatusError:
			// The fatal path reports the terminal errored event.
		}
	}
}

func (u Usecase) emit(fn types.ProgressFunc, stage types.Stage, fraction float64, msg string) {
	u.d.Logger.Debug().Str("stage", string(stage)).Float64("fraction", fraction).Msg(msg)
	if fn != nil {
		fn(types.ProgressEvent{Stage: stage, Fraction: fraction, Message: msg})
	}
}

// relocate moves the final artifact outside the workspace, falling back to
// a copy when rename crosses filesystems.
func relocate(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
