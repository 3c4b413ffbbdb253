package preflight

import (
	"context"

	"asciivid/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Downloads directory", cfg.Paths.DownloadsDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if err := ctx.Err(); err != nil {
		return results
	}
	results = append(results, CheckEncoderSupport(ctx, cfg.FFmpeg.FFmpegBinary))
	return results
}
