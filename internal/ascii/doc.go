// Package ascii turns raster frames into grids of coloured glyph cells.
//
// FrameToASCII converts a single decoded frame; ConvertToText runs ffmpeg over
// a whole file, trims the requested leading and trailing frames and converts
// what remains, reporting progress per stage.
package ascii
