package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"asciivid/internal/config"
	"asciivid/internal/deps"
)

// CheckDirectoryAccess verifies that path is a directory the current user can
// read, write and traverse, and reports the space left on its filesystem.
func CheckDirectoryAccess(name, path string) Result {
	fail := func(reason string) Result {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", path, reason)}
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fail("does not exist")
	case err != nil:
		return fail(fmt.Sprintf("stat: %v", err))
	case !info.IsDir():
		return fail("is not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(fmt.Sprintf("insufficient permissions: %v", err))
	}
	detail := fmt.Sprintf("%s (read/write ok)", path)
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err == nil {
		free := uint64(st.Bavail) * uint64(st.Bsize)
		detail = fmt.Sprintf("%s (read/write ok, %s free)", path, humanize.IBytes(free))
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckEncoderSupport reports whether ffmpeg can produce MP4 or WebM output.
func CheckEncoderSupport(ctx context.Context, ffmpegBinary string) Result {
	const name = "Video encoders"
	enc, err := deps.CheckEncoders(ctx, ffmpegBinary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unavailable (%v)", err)}
	}
	if !enc.Any() {
		return Result{Name: name, Detail: "ffmpeg has neither libx264 nor libvpx-vp9"}
	}
	return Result{Name: name, Passed: true, Detail: enc.Summary()}
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpeg.FFmpegBinary,
			Description: "Required for frame extraction and video encoding",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFmpeg.FFprobeBinary,
			Description: "Required for video inspection",
		},
	}
	return deps.CheckBinaries(requirements)
}

// MissingRequired returns the required dependencies that are unavailable.
func MissingRequired(statuses []deps.Status) []deps.Status {
	var missing []deps.Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
