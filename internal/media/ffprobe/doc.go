// Package ffprobe provides a typed wrapper around ffprobe JSON output for
// the video inputs asciivid converts.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Video: the dimensions, duration and frame rate of the primary video stream
//
// Inspect executes ffprobe and returns the parsed Result; Result.Video
// condenses it into the values the sampler and converter need.
package ffprobe
