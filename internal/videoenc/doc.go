// Package videoenc renders converted ASCII frames to pixels and encodes them
// into a playable video.
//
// Glyphs are drawn with the fixed 7x13 bitmap face from x/image and the raw
// RGB frames are piped into ffmpeg. MP4 (libx264) is attempted first; when
// that encoder is unavailable the frames are encoded as WebM (libvpx-vp9).
package videoenc
