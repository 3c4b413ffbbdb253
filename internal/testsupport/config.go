package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"asciivid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Logging is routed to the temp log dir and the history uses the file backend.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.DownloadsDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Level = "error"

	b := &configBuilder{t: t, baseDir: base, cfg: &cfg}
	for _, opt := range opts {
		opt(b)
	}
	return b.cfg
}

// WithBackend selects the outputs backend ("file" or "sqlite").
func WithBackend(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Outputs.Backend = name
	}
}

// WithCapacity overrides the history capacity.
func WithCapacity(capacity int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Outputs.Capacity = capacity
	}
}

// WithFakeToolchain writes ffprobe and ffmpeg scripts that behave like a
// FakeWidth x FakeHeight clip lasting FakeDuration seconds and points the
// config at them. A frame stream yields the given number of grey frames at
// whatever size the scale filter requests.
func WithFakeToolchain(frames int) ConfigOption {
	return func(b *configBuilder) {
		scripts := map[string]string{
			"ffprobe": fakeProbeScript,
			"ffmpeg":  fakeFFmpegScript(frames),
		}
		dir := b.writeScripts("bin", scripts)
		b.cfg.FFmpeg.FFprobeBinary = filepath.Join(dir, "ffprobe")
		b.cfg.FFmpeg.FFmpegBinary = filepath.Join(dir, "ffmpeg")
	}
}

// WithMissingBinary points "ffmpeg" or "ffprobe" at a path that does not
// exist. Apply it after WithFakeToolchain.
func WithMissingBinary(name string) ConfigOption {
	return func(b *configBuilder) {
		missing := filepath.Join(b.baseDir, "missing", name)
		switch name {
		case "ffmpeg":
			b.cfg.FFmpeg.FFmpegBinary = missing
		case "ffprobe":
			b.cfg.FFmpeg.FFprobeBinary = missing
		default:
			b.t.Fatalf("unknown binary %q", name)
		}
	}
}

func (b *configBuilder) writeScripts(subdir string, scripts map[string]string) string {
	b.t.Helper()
	dir := filepath.Join(b.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatalf("mkdir %s: %v", subdir, err)
	}
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755); err != nil {
			b.t.Fatalf("write fake %s: %v", name, err)
		}
	}
	return dir
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
