package codec

import (
	"image"
	"io"
	"path/filepath"
	"strings"

	dimaging "github.com/disintegration/imaging"
)

// Format identifies an image file format.
type Format int

// Supported formats. WebP is decode only.
const (
	FormatUnknown Format = iota
	PPM
	PNG
	JPEG
	GIF
	BMP
	TIFF
	WebP
)

var formatNames = map[Format]string{
	PPM:  "ppm",
	PNG:  "png",
	JPEG: "jpeg",
	GIF:  "gif",
	BMP:  "bmp",
	TIFF: "tiff",
	WebP: "webp",
}

var formatExts = map[string]Format{
	".ppm":  PPM,
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
	".webp": WebP,
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "unknown"
}

// Ext returns the canonical file extension, including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// ParseFormat maps a format name such as "png" or "jpg" to a Format.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimPrefix(name, "."))
	if f, ok := formatExts["."+n]; ok {
		return f, nil
	}
	return FormatUnknown, &UnsupportedFormatError{Format: name}
}

// FormatFromPath picks the format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatExts[ext]; ok {
		return f, nil
	}
	return FormatUnknown, &UnsupportedFormatError{Format: ext}
}

// Codec reads and writes one image format.
type Codec interface {
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image) error
}

// Codec returns the codec for f.
func (f Format) Codec() (Codec, error) {
	switch f {
	case PPM:
		return ppmCodec{}, nil
	case PNG:
		return rasterCodec{format: dimaging.PNG}, nil
	case JPEG:
		return rasterCodec{format: dimaging.JPEG}, nil
	case GIF:
		return rasterCodec{format: dimaging.GIF}, nil
	case BMP:
		return rasterCodec{format: dimaging.BMP}, nil
	case TIFF:
		return rasterCodec{format: dimaging.TIFF}, nil
	case WebP:
		return webpCodec{}, nil
	}
	return nil, &UnsupportedFormatError{Format: f.String()}
}
