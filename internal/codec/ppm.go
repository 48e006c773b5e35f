package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/ironsheep/image-layers-mcp/internal/imaging"
)

// ASCII portable pixmap, magic number P3.
const ppmMagic = "P3"

// ppmLineWidth is the longest line Encode writes.
const ppmLineWidth = 70

func init() {
	image.RegisterFormat("ppm", ppmMagic, decodePPM, decodePPMConfig)
}

type ppmCodec struct{}

func (ppmCodec) Decode(r io.Reader) (image.Image, error) { return decodePPM(r) }

func (ppmCodec) Encode(w io.Writer, img image.Image) error { return encodePPM(w, img) }

type ppmHeader struct {
	width, height, maxVal int
}

// ppmScanner splits PPM input into whitespace-separated tokens, dropping
// '#' comments.
type ppmScanner struct {
	r *bufio.Reader
}

func (s *ppmScanner) token() (string, error) {
	var tok []byte
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch c {
		case '#':
			if _, err := s.r.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			if len(tok) > 0 {
				return string(tok), nil
			}
		case ' ', '\t', '\n', '\r', '\v', '\f':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}

func (s *ppmScanner) int(what string) (int, error) {
	tok, err := s.token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("ppm: reading %s: %w", what, err)
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("ppm: invalid %s %q", what, tok)
	}
	return n, nil
}

func (s *ppmScanner) header() (ppmHeader, error) {
	magic, err := s.token()
	if err != nil {
		return ppmHeader{}, fmt.Errorf("ppm: reading magic number: %w", err)
	}
	if magic != ppmMagic {
		return ppmHeader{}, fmt.Errorf("ppm: magic number %q, want %s", magic, ppmMagic)
	}
	var h ppmHeader
	if h.width, err = s.int("width"); err != nil {
		return ppmHeader{}, err
	}
	if h.height, err = s.int("height"); err != nil {
		return ppmHeader{}, err
	}
	if h.maxVal, err = s.int("maximum value"); err != nil {
		return ppmHeader{}, err
	}
	if h.width == 0 || h.height == 0 {
		return ppmHeader{}, fmt.Errorf("ppm: empty image %dx%d", h.width, h.height)
	}
	if h.maxVal == 0 || h.maxVal > 65535 {
		return ppmHeader{}, fmt.Errorf("ppm: maximum value %d out of range", h.maxVal)
	}
	return h, nil
}

func decodePPMConfig(r io.Reader) (image.Config, error) {
	s := &ppmScanner{r: bufio.NewReader(r)}
	h, err := s.header()
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: h.width, Height: h.height}, nil
}

func decodePPM(r io.Reader) (image.Image, error) {
	s := &ppmScanner{r: bufio.NewReader(r)}
	h, err := s.header()
	if err != nil {
		return nil, err
	}
	if h.width > imaging.MaxPixels/h.height {
		return nil, &imaging.InvalidGridError{
			Reason: fmt.Sprintf("%dx%d exceeds %d pixels", h.width, h.height, imaging.MaxPixels),
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	for i := 0; i < h.width*h.height; i++ {
		var rgb [3]uint8
		for c := range rgb {
			v, err := s.int("sample")
			if err != nil {
				return nil, err
			}
			if v > h.maxVal {
				return nil, fmt.Errorf("ppm: sample %d exceeds maximum value %d", v, h.maxVal)
			}
			rgb[c] = scaleSample(v, h.maxVal)
		}
		img.Pix[i*4+0] = rgb[0]
		img.Pix[i*4+1] = rgb[1]
		img.Pix[i*4+2] = rgb[2]
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

// scaleSample maps v in [0,maxVal] onto [0,255], rounding to nearest.
func scaleSample(v, maxVal int) uint8 {
	if maxVal == 255 {
		return uint8(v)
	}
	return uint8((v*255 + maxVal/2) / maxVal)
}

func encodePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", ppmMagic, b.Dx(), b.Dy()); err != nil {
		return err
	}

	nrgba := color.NRGBAModel
	for y := b.Min.Y; y < b.Max.Y; y++ {
		col := 0
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba.Convert(img.At(x, y)).(color.NRGBA)
			for _, v := range [3]uint8{c.R, c.G, c.B} {
				s := strconv.Itoa(int(v))
				if col > 0 && col+1+len(s) > ppmLineWidth {
					if err := bw.WriteByte('\n'); err != nil {
						return err
					}
					col = 0
				}
				if col > 0 {
					if err := bw.WriteByte(' '); err != nil {
						return err
					}
					col++
				}
				if _, err := bw.WriteString(s); err != nil {
					return err
				}
				col += len(s)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
