// Package container reads and writes the .jsonl.gz frame-stream format.
//
// The uncompressed text is one JSON header line followed by one line per
// run-length encoded frame, joined by newlines with no trailing newline.
// The persisted and downloaded artifact is always the gzip-compressed form.
package container
