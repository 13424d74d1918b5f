// Package pipeline wires production adapters into the clip extraction
// usecase and validates a run's configuration before any external resource
// is touched.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cezarfpek/clipper/internal/ports/adapters/ffmpeg"
	"github.com/cezarfpek/clipper/internal/ports/adapters/ytdlp"
	"github.com/cezarfpek/clipper/internal/timecode"
	"github.com/cezarfpek/clipper/internal/types"
	"github.com/cezarfpek/clipper/internal/usecase"
	"github.com/cezarfpek/clipper/internal/workspace"
)

// Config describes one clip extraction run.
type Config struct {
	URL       string
	StartTime string // ss, mm:ss or hh:mm:ss
	EndTime   string
	Cookies   string // optional cookie-jar content

	// OutputPath is where the final artifact lands. Empty keeps the
	// artifact inside the run workspace and returns its path there.
	OutputPath string

	// WorkspaceBase overrides the parent directory of the run workspace.
	// Empty uses the system temp directory.
	WorkspaceBase string

	FFmpegPath         string
	FFmpegFallbackPath string
	YtDlpPath          string

	Format   string // resolver format preference
	Font     string // overlay font; empty uses the engine default
	Platform string // attribution platform label

	Progress types.ProgressFunc
	Logger   zerolog.Logger
}

// Validate checks the request without touching any external resource.
func (c Config) Validate() error {
	if err := validateSourceURL(c.URL); err != nil {
		return err
	}
	if _, _, err := timecode.Window(c.StartTime, c.EndTime); err != nil {
		return err
	}
	return nil
}

// Result is the terminal outcome of a run.
type Result struct {
	FinalPath string
	Uploader  string
	Degraded  bool
}

// Run validates cfg, builds the production adapters and executes the
// pipeline. The caller owns the final artifact after return.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	start, end, err := timecode.Window(cfg.StartTime, cfg.EndTime)
	if err != nil {
		return Result{}, err
	}

	logger := cfg.Logger

	resolver := ytdlp.New(cfg.YtDlpPath,
		ytdlp.WithLogger(logger.With().Str("component", "ytdlp").Logger()))
	engine := ffmpeg.New(cfg.FFmpegPath, cfg.FFmpegFallbackPath,
		ffmpeg.WithLogger(logger.With().Str("component", "ffmpeg").Logger()))

	ws, err := workspace.Create(cfg.WorkspaceBase, logger.With().Str("component", "workspace").Logger())
	if err != nil {
		return Result{}, err
	}

	format := cfg.Format
	if format == "" {
		format = "best[ext=mp4]/best"
	}
	platform := cfg.Platform
	if platform == "" {
		platform = "Youtube"
	}

	uc := usecase.New(usecase.Deps{
		Resolver: resolver,
		Engine:   engine,
		Logger:   logger.With().Str("component", "pipeline").Logger(),
	})

	res, err := uc.Run(ctx, usecase.Input{
		URL:        cfg.URL,
		Cookies:    cfg.Cookies,
		Start:      start,
		End:        end,
		Workspace:  ws,
		Format:     format,
		Font:       cfg.Font,
		Platform:   platform,
		OutputPath: cfg.OutputPath,
		Progress:   cfg.Progress,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		FinalPath: res.FinalPath,
		Uploader:  res.Meta.Uploader,
		Degraded:  res.Degraded,
	}, nil
}

// DefaultOutputName builds the conventional clip filename for a window,
// e.g. clip_1-30_to_2-15.mp4.
func DefaultOutputName(startTime, endTime string) string {
	clean := func(s string) string { return strings.ReplaceAll(s, ":", "-") }
	return fmt.Sprintf("clip_%s_to_%s.mp4", clean(startTime), clean(endTime))
}

// DefaultOutputPath joins the output directory with the conventional name.
func DefaultOutputPath(dir, startTime, endTime string) string {
	return filepath.Join(dir, DefaultOutputName(startTime, endTime))
}
