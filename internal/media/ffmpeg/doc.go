// Package ffmpeg drives the ffmpeg binary to decode video frames into raw
// RGB rasters.
//
// GrabFrame seeks to a timestamp and returns a single frame at native
// resolution; StreamFrames decodes a whole file at a fixed rate and scale,
// handing each frame to a callback as it arrives on the pipe.
package ffmpeg
