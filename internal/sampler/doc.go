// Package sampler captures an evenly spaced set of raster frames from a
// video for interactive preview.
//
// Sampling is strictly sequential: each seek completes before the frame is
// captured and the next seek begins. A run either returns every frame or
// none, and a run whose generation guard reports it stale returns ErrStale
// with its frames discarded.
package sampler
