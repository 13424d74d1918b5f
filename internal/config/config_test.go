package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("ffmpeg default = %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.FFmpegFallback != "/usr/local/bin/ffmpeg" {
		t.Fatalf("ffmpeg fallback default = %q", cfg.Tools.FFmpegFallback)
	}
	if cfg.Download.Format != "best[ext=mp4]/best" {
		t.Fatalf("format default = %q", cfg.Download.Format)
	}
	if cfg.Overlay.Platform != "Youtube" {
		t.Fatalf("platform default = %q", cfg.Overlay.Platform)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
tools:
  ytdlp: /opt/bin/yt-dlp
download:
  format: best
overlay:
  font: Arial
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Tools.YtDlp != "/opt/bin/yt-dlp" {
		t.Fatalf("ytdlp = %q", cfg.Tools.YtDlp)
	}
	if cfg.Download.Format != "best" {
		t.Fatalf("format = %q", cfg.Download.Format)
	}
	if cfg.Overlay.Font != "Arial" {
		t.Fatalf("font = %q", cfg.Overlay.Font)
	}
	// Untouched sections keep their defaults.
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("ffmpeg = %q", cfg.Tools.FFmpeg)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tools: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
}
