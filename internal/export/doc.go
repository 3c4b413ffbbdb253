// Package export runs the text and video export pipelines.
//
// Requests are validated before any work begins and only one export may run
// at a time. A text export converts the video, run-length encodes each
// frame, packs the frames into a compressed frame stream, records it in the
// output history and writes the artifact to the downloads directory. A video
// export renders the frames and writes the encoded MP4 or WebM file.
package export
