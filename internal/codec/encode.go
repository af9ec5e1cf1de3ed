package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/AnyUserName/pixbuf-cli/internal/pixel"
	"github.com/AnyUserName/pixbuf-cli/internal/raster"
)

// ErrUnencodable reports a buffer whose color type the encoder contract
// does not cover. Only the RGB/RGBA family is accepted; callers flatten
// gray-scale and palette buffers first rather than relying on a silent
// conversion here.
var ErrUnencodable = errors.New("buffer not encodable")

// EncodePNG serializes an RGB or RGBA buffer as a PNG.
func EncodePNG(b *raster.Buffer) ([]byte, error) {
	img, err := ToImage(b)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(b.Width() * b.Height())

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ToImage converts an RGB/RGBA-family buffer to a stdlib image.
// 16-bit buffers keep their full sample width via NRGBA64.
func ToImage(b *raster.Buffer) (image.Image, error) {
	switch b.ColorType() {
	case pixel.RGB, pixel.RGBA:
	default:
		return nil, fmt.Errorf("%w: color type %s (flatten to rgba first)", ErrUnencodable, b.ColorType())
	}

	w, h := b.Width(), b.Height()
	src := b.Pix()

	switch {
	case b.ColorType() == pixel.RGBA && b.BitDepth() == 16:
		img := image.NewNRGBA64(image.Rect(0, 0, w, h))
		copy(img.Pix, src)
		return img, nil

	case b.ColorType() == pixel.RGBA:
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		copy(img.Pix, src)
		return img, nil

	default: // rgb: expand to opaque rgba
		sw := (b.BitDepth() + 7) / 8
		bpp := 3 * sw
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i, di := 0, 0; i < len(src); i, di = i+bpp, di+4 {
			img.Pix[di] = src[i]
			img.Pix[di+1] = src[i+sw]
			img.Pix[di+2] = src[i+2*sw]
			img.Pix[di+3] = 0xff
		}
		return img, nil
	}
}
