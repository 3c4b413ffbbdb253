package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asciivid/internal/config"
	"asciivid/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	video      string
}

// setupCLITestEnv writes a config pointing at a fake ffmpeg toolchain that
// streams frames grey frames per export.
func setupCLITestEnv(t *testing.T, frames int, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithFakeToolchain(frames)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "asciivid.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		video:      testsupport.WriteVideo(t, base, "beach day.mp4"),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
downloads_dir = %q
log_dir = %q

[outputs]
backend = %q
capacity = %d

[ffmpeg]
ffmpeg_binary = %q
ffprobe_binary = %q

[logging]
level = %q
`,
		cfg.Paths.DataDir,
		cfg.Paths.DownloadsDir,
		cfg.Paths.LogDir,
		cfg.Outputs.Backend,
		cfg.Outputs.Capacity,
		cfg.FFmpeg.FFmpegBinary,
		cfg.FFmpeg.FFprobeBinary,
		cfg.Logging.Level,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
