// Package config loads the optional clipper YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
type Config struct {
	Tools    ToolsConfig    `yaml:"tools"`
	Download DownloadConfig `yaml:"download"`
	Overlay  OverlayConfig  `yaml:"overlay"`
	Output   OutputConfig   `yaml:"output"`
}

// ToolsConfig locates the external binaries the pipeline shells out to.
type ToolsConfig struct {
	FFmpeg         string `yaml:"ffmpeg"`
	FFmpegFallback string `yaml:"ffmpeg_fallback"`
	YtDlp          string `yaml:"ytdlp"`
}

// DownloadConfig contains source resolver settings.
type DownloadConfig struct {
	Format string `yaml:"format"`
}

// OverlayConfig contains caption burn-in settings.
type OverlayConfig struct {
	// Font is passed to the engine's text renderer. The default is a name
	// commonly available on Linux hosts; platform-dependent.
	Font     string `yaml:"font"`
	Platform string `yaml:"platform"`
}

// OutputConfig contains final artifact settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			FFmpeg:         "ffmpeg",
			FFmpegFallback: "/usr/local/bin/ffmpeg",
			YtDlp:          "yt-dlp",
		},
		Download: DownloadConfig{
			Format: "best[ext=mp4]/best",
		},
		Overlay: OverlayConfig{
			Font:     "DejaVu Sans",
			Platform: "Youtube",
		},
		Output: OutputConfig{
			Dir: "out",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields the file left empty.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = d.Tools.FFmpeg
	}
	if c.Tools.FFmpegFallback == "" {
		c.Tools.FFmpegFallback = d.Tools.FFmpegFallback
	}
	if c.Tools.YtDlp == "" {
		c.Tools.YtDlp = d.Tools.YtDlp
	}
	if c.Download.Format == "" {
		c.Download.Format = d.Download.Format
	}
	if c.Overlay.Platform == "" {
		c.Overlay.Platform = d.Overlay.Platform
	}
	if c.Output.Dir == "" {
		c.Output.Dir = d.Output.Dir
	}
}
