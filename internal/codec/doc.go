// Package codec converts between image files and imaging grids.
//
// The format is chosen once, from a file extension or name, as a Format
// value; each Format maps to a Codec. ASCII PPM (P3) is handled natively
// and registered with the standard image package. PNG, JPEG, GIF, BMP and
// TIFF go through github.com/disintegration/imaging. WebP can be read but
// not written.
//
// Alpha is discarded on decode: grids hold opaque RGB only.
package codec
