package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asciivid/internal/services"
	"asciivid/internal/testsupport"
)

func TestExportTextSavesToHistory(t *testing.T) {
	env := setupCLITestEnv(t, 4)

	out, _, err := runCLI(t, []string{"export", "text", env.video, "--width", "40", "--skip-start", "1", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("export text: %v", err)
	}
	var view textExportView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode export output %q: %v", out, err)
	}
	if view.FrameCount != 3 || view.Dimensions != "40x10" || view.FPS != 10 {
		t.Fatalf("unexpected export view %+v", view)
	}
	if !view.Saved || view.Name != "beach day" || view.Type != "Text" {
		t.Fatalf("unexpected history fields %+v", view)
	}
	if filepath.Dir(view.Artifact) != env.cfg.Paths.DownloadsDir {
		t.Fatalf("artifact %q not in downloads dir %q", view.Artifact, env.cfg.Paths.DownloadsDir)
	}
	if !strings.HasSuffix(view.Artifact, ".jsonl.gz") {
		t.Fatalf("unexpected artifact name %q", view.Artifact)
	}
	info, err := os.Stat(view.Artifact)
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	if info.Size() != view.Size {
		t.Fatalf("artifact size %d, record size %d", info.Size(), view.Size)
	}

	out, _, err = runCLI(t, []string{"outputs", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("outputs list: %v", err)
	}
	var listed []outputView
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("decode list output: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != view.ID {
		t.Fatalf("expected exported record in history, got %+v", listed)
	}
}

func TestExportTextRoundPixels(t *testing.T) {
	env := setupCLITestEnv(t, 2)

	out, _, err := runCLI(t, []string{"export", "text", env.video, "--width", "40", "--round", "--no-progress"}, env.configPath)
	if err != nil {
		t.Fatalf("export text --round: %v", err)
	}
	requireContains(t, out, "Exported 2 frames (40x20 @ 10 fps")
	requireContains(t, out, "Saved to history as ")
	requireContains(t, out, "beach day-round-")
}

func TestExportRejectsInvalidParameters(t *testing.T) {
	env := setupCLITestEnv(t, 1)

	cases := map[string][]string{
		"width too small": {"export", "text", env.video, "--width", "10"},
		"fps too high":    {"export", "video", env.video, "--fps", "31"},
		"missing video":   {"export", "text", filepath.Join(env.baseDir, "nope.mp4")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := runCLI(t, args, env.configPath)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestExportFailsFastWithoutFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t, 1, testsupport.WithMissingBinary("ffmpeg"))

	_, _, err := runCLI(t, []string{"export", "text", env.video, "--width", "40"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "FFmpeg")
}

func TestExportVideo(t *testing.T) {
	env := setupCLITestEnv(t, 3)

	out, _, err := runCLI(t, []string{"export", "video", env.video, "--width", "40", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("export video: %v", err)
	}
	var view videoExportView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode export output %q: %v", out, err)
	}
	if view.Format != "mp4" || view.Frames != 3 {
		t.Fatalf("unexpected video export %+v", view)
	}
	if !strings.HasPrefix(filepath.Base(view.Artifact), "beach day-ascii-") || filepath.Ext(view.Artifact) != ".mp4" {
		t.Fatalf("unexpected artifact %q", view.Artifact)
	}
	data, err := os.ReadFile(view.Artifact)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "fake-video" {
		t.Fatalf("unexpected artifact contents %q", data)
	}

	out, _, err = runCLI(t, []string{"outputs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("outputs list: %v", err)
	}
	requireContains(t, out, "No saved outputs")
}
