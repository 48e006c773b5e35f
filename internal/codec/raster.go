package codec

import (
	"image"
	"io"

	dimaging "github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// JPEGQuality is used when saving JPEG files.
const JPEGQuality = 95

type rasterCodec struct {
	format dimaging.Format
}

func (c rasterCodec) Decode(r io.Reader) (image.Image, error) {
	return dimaging.Decode(r, dimaging.AutoOrientation(true))
}

func (c rasterCodec) Encode(w io.Writer, img image.Image) error {
	return dimaging.Encode(w, img, c.format, dimaging.JPEGQuality(JPEGQuality))
}

type webpCodec struct{}

func (webpCodec) Decode(r io.Reader) (image.Image, error) {
	return webp.Decode(r)
}

func (webpCodec) Encode(io.Writer, image.Image) error {
	return &UnsupportedFormatError{Format: "webp", Op: "encode"}
}
