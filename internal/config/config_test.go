package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asciivid/internal/config"
)

func TestLoadDefaultConfigUsesHomeDirectories(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected no config file to exist, resolved %q", resolved)
	}
	if want := filepath.Join(tempHome, ".config", "asciivid", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "asciivid"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if want := filepath.Join(tempHome, "Downloads"); cfg.Paths.DownloadsDir != want {
		t.Fatalf("unexpected downloads dir: got %q want %q", cfg.Paths.DownloadsDir, want)
	}
	if cfg.Outputs.Backend != "file" || cfg.Outputs.Capacity != 20 {
		t.Fatalf("unexpected outputs defaults: %+v", cfg.Outputs)
	}
	if cfg.Convert.Chars != "F$V* " || cfg.Convert.Threshold != 160 || cfg.Convert.Contrast != 100 {
		t.Fatalf("unexpected convert defaults: %+v", cfg.Convert)
	}
	if cfg.ExposureValue() != config.DefaultExposure {
		t.Fatalf("expected default exposure %d, got %d", config.DefaultExposure, cfg.ExposureValue())
	}
	if cfg.Preview.MaxSamples != 100 || cfg.Preview.SamplesPerSecond != 10 {
		t.Fatalf("unexpected preview defaults: %+v", cfg.Preview)
	}
}

func TestLoadCustomConfigOverridesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "asciivid.toml")
	content := `[paths]
data_dir = "~/vid-data"

[outputs]
backend = "SQLite"
capacity = 5
max_bytes = 1024

[convert]
fps = 24
width = 120
exposure = 0

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to exist, got %q (exists=%v)", configPath, resolved, exists)
	}
	if want := filepath.Join(tempHome, "vid-data"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if cfg.Outputs.Backend != "sqlite" || cfg.Outputs.Capacity != 5 || cfg.Outputs.MaxBytes != 1024 {
		t.Fatalf("unexpected outputs: %+v", cfg.Outputs)
	}
	if cfg.Convert.FPS != 24 || cfg.Convert.Width != 120 {
		t.Fatalf("unexpected convert: %+v", cfg.Convert)
	}
	if cfg.ExposureValue() != 0 {
		t.Fatalf("explicit exposure 0 should be honoured, got %d", cfg.ExposureValue())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if got := cfg.OutputsDBPath(); got != filepath.Join(cfg.Paths.DataDir, "outputs.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"fps", func(c *config.Config) { c.Convert.FPS = 31 }, "convert.fps"},
		{"width", func(c *config.Config) { c.Convert.Width = 39 }, "convert.width"},
		{"backend", func(c *config.Config) { c.Outputs.Backend = "redis" }, "outputs.backend"},
		{"capacity", func(c *config.Config) { c.Outputs.Capacity = 0 }, "outputs.capacity"},
		{"noise", func(c *config.Config) { c.Convert.NoiseLevel = 1.5 }, "convert.noise_level"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestFFmpegBinaryFallsBackToEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FFMPEG_BINARY", "/opt/ffmpeg/bin/ffmpeg")

	configPath := filepath.Join(t.TempDir(), "asciivid.toml")
	if err := os.WriteFile(configPath, []byte("[ffmpeg]\nffmpeg_binary = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpeg.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected env fallback, got %q", cfg.FFmpeg.FFmpegBinary)
	}
	if cfg.FFmpeg.FFprobeBinary != "ffprobe" {
		t.Fatalf("expected default ffprobe, got %q", cfg.FFmpeg.FFprobeBinary)
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Convert.Exposure != nil {
		t.Fatalf("sample leaves exposure unset, got %v", *cfg.Convert.Exposure)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.DownloadsDir = filepath.Join(base, "downloads")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.DownloadsDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "asciivid.toml")
	if err := os.WriteFile(configPath, []byte("[convert]\nwidht = 80\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected error for misspelled key")
	}
	if !strings.Contains(err.Error(), "widht") {
		t.Fatalf("expected error to name the unknown key, got %v", err)
	}
}
