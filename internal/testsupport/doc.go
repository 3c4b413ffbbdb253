// Package testsupport builds throwaway asciivid environments for tests.
//
// NewConfig writes a config rooted in a temp directory and, with
// WithFakeToolchain, installs shell-script ffprobe and ffmpeg stand-ins that
// report a fixed geometry and emit grey frames. MustOpenStore and SeedRecord
// populate the outputs history without running a conversion.
package testsupport
