package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cezarfpek/clipper/internal/config"
	"github.com/cezarfpek/clipper/internal/logging"
	"github.com/cezarfpek/clipper/internal/pipeline"
	"github.com/cezarfpek/clipper/internal/types"
)

func run(cmd *cobra.Command, url string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	out, _ := cmd.Flags().GetString("out")
	cookiesFile, _ := cmd.Flags().GetString("cookies-file")
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logging.Init(verbose)

	if configPath == "" {
		configPath = getenvDefault("CLIPPER_CONFIG", "config.yaml")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var cookies string
	if cookiesFile != "" {
		b, err := os.ReadFile(cookiesFile)
		if err != nil {
			return fmt.Errorf("read cookies file: %w", err)
		}
		cookies = string(b)
	}

	if out == "" {
		out = pipeline.DefaultOutputPath(cfg.Output.Dir, start, end)
	}

	res, err := pipeline.Run(context.Background(), pipeline.Config{
		URL:        url,
		StartTime:  start,
		EndTime:    end,
		Cookies:    cookies,
		OutputPath: out,

		FFmpegPath:         cfg.Tools.FFmpeg,
		FFmpegFallbackPath: cfg.Tools.FFmpegFallback,
		YtDlpPath:          cfg.Tools.YtDlp,

		Format:   cfg.Download.Format,
		Font:     cfg.Overlay.Font,
		Platform: cfg.Overlay.Platform,

		Progress: progressPrinter(),
		Logger:   log.Logger,
	})
	if err != nil {
		return err
	}

	if res.Degraded {
		cliLog := logging.WithComponent("cli")
		cliLog.Warn().Msg("clip rendered without the credits overlay")
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.FinalPath)
	return nil
}

// progressPrinter logs stage transitions and coarse download progress,
// throttling the per-sample download spam to 10% steps.
func progressPrinter() types.ProgressFunc {
	logger := logging.WithComponent("progress")
	var lastStage types.Stage
	lastDecile := -1

	return func(e types.ProgressEvent) {
		if e.Stage == types.StageDownloading && lastStage == types.StageDownloading {
			decile := int(e.Fraction * 10)
			if e.Fraction < 0 || decile == lastDecile {
				return
			}
			lastDecile = decile
			logger.Info().Str("stage", string(e.Stage)).Str("progress", fmt.Sprintf("%.0f%%", e.Fraction*100)).Msg(e.Message)
			return
		}
		lastStage = e.Stage
		logger.Info().Str("stage", string(e.Stage)).Msg(e.Message)
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
