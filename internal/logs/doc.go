// Package logs reads the asciivid log file for `asciivid logs`.
//
// Last returns the final N lines with bounded memory, Since reads whatever was
// appended after an offset, and Follow polls for new lines until its context
// ends. Offsets are byte positions so callers can resume where they left off.
package logs
