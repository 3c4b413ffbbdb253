package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteVideo creates a placeholder video file named name under dir. The fake
// toolchain never reads it; exports only require it to exist.
func WriteVideo(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("placeholder video"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
