// Package preflight provides readiness checks for the binaries and
// directories asciivid depends on.
//
// The CLI "asciivid status" command renders these results, and exports run
// CheckSystemDeps before starting so a missing ffmpeg fails fast with a clear
// message instead of midway through a conversion.
package preflight
