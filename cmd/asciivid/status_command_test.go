package main

import (
	"testing"
	"time"

	"asciivid/internal/testsupport"
)

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t, 1)
	store := testsupport.MustOpenStore(t, env.cfg)
	testsupport.SeedRecord(t, store, "clip", 2, time.Now())
	_ = store.Close()

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[OK] Ready (command: "+env.cfg.FFmpeg.FFmpegBinary+")")
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "libx264")
	requireContains(t, out, "Saved outputs:")
	requireContains(t, out, "[OK] 1 of 20")
}

func TestStatusWithSQLiteBackend(t *testing.T) {
	env := setupCLITestEnv(t, 1, testsupport.WithBackend("sqlite"), testsupport.WithCapacity(1))
	store := testsupport.MustOpenStore(t, env.cfg)
	testsupport.SeedRecord(t, store, "first", 1, time.Now())
	testsupport.SeedRecord(t, store, "second", 1, time.Now())
	_ = store.Close()

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[INFO] sqlite")
	requireContains(t, out, "[WARN] 1 of 1")
}
