// Package raster owns the in-memory pixel buffer of a decoded image:
// raw bytes plus the metadata needed to address and interpret them
// (dimensions, bit depth, color type, row stride). It provides
// coordinate↔offset conversion, per-pixel color reads, and the canvas
// resize transform. All operations are pure and synchronous; a buffer
// never shares its bytes with another.
package raster

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/pixbuf-cli/internal/geom"
	"github.com/AnyUserName/pixbuf-cli/internal/pixel"
)

// ErrOutOfBounds reports a pixel access outside [0,width)×[0,height).
var ErrOutOfBounds = errors.New("coordinates out of bounds")

// Buffer is a decoded image: tightly packed, row-major raw bytes plus
// the metadata to interpret them. The palette is non-nil only for
// palette-indexed buffers. A Buffer owns its bytes exclusively;
// transforms allocate rather than mutate.
type Buffer struct {
	width     int
	height    int
	bitDepth  int
	colorType pixel.ColorType
	stride    int // bytes per row; tightly packed, so width*bpp
	palette   pixel.Palette
	pix       []byte
}

// New wraps a decoded raw buffer. It validates the dimensions, the bit
// depth, the color type, and the buffer-length invariant
// len(pix) == width × height × bytesPerPixel; rows must be tightly
// packed (no padding). The palette may be nil unless colorType is
// PaletteIndexed, in which case per-pixel RGBA resolution needs it.
func New(width, height, bitDepth int, colorType pixel.ColorType, palette pixel.Palette, pix []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	switch bitDepth {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("invalid bit depth %d", bitDepth)
	}
	channels, err := colorType.Channels()
	if err != nil {
		return nil, err
	}
	bpp := sampleBytes(bitDepth) * channels
	if want := width * height * bpp; len(pix) != want {
		return nil, fmt.Errorf("buffer length %d does not match %dx%d %s at %d bytes/pixel (want %d)",
			len(pix), width, height, colorType, bpp, want)
	}
	return &Buffer{
		width:     width,
		height:    height,
		bitDepth:  bitDepth,
		colorType: colorType,
		stride:    width * bpp,
		palette:   palette,
		pix:       pix,
	}, nil
}

// sampleBytes is the byte-rounded width of one channel sample.
func sampleBytes(bitDepth int) int {
	return (bitDepth + 7) / 8
}

func (b *Buffer) Width() int                 { return b.width }
func (b *Buffer) Height() int                { return b.height }
func (b *Buffer) BitDepth() int              { return b.bitDepth }
func (b *Buffer) ColorType() pixel.ColorType { return b.colorType }
func (b *Buffer) Stride() int                { return b.stride }
func (b *Buffer) Palette() pixel.Palette     { return b.palette }

// Pix returns the raw pixel bytes. The slice aliases the buffer's
// storage; callers must not hold it across a transform.
func (b *Buffer) Pix() []byte { return b.pix }

// Channels returns the channel count of the buffer's color type.
func (b *Buffer) Channels() int {
	n, _ := b.colorType.Channels() // validated at construction
	return n
}

// BytesPerPixel is the stride between adjacent pixels within a row:
// channel count × byte-rounded sample width.
func (b *Buffer) BytesPerPixel() int {
	return sampleBytes(b.bitDepth) * b.Channels()
}

// ToOffset converts pixel coordinates to a byte offset into Pix.
// Deliberately unchecked: callers on the external boundary validate
// bounds once (ColorAt, ResizeCanvas) and the hot copy loops reuse the
// arithmetic without re-checking.
func (b *Buffer) ToOffset(x, y int) int {
	return (x + y*b.width) * b.BytesPerPixel()
}

// ToCoordinates converts a byte offset back to pixel coordinates.
// Inverse of ToOffset for every in-range coordinate.
func (b *Buffer) ToCoordinates(offset int) geom.XY {
	idx := offset / b.BytesPerPixel()
	return geom.Pt(idx%b.width, idx/b.width)
}

// ColorAt reads the pixel at (x, y) as the color variant matching the
// buffer's color type. For 16-bit buffers the leading (high) byte of
// each sample is read, giving the 8-bit view of the channel.
func (b *Buffer) ColorAt(x, y int) (pixel.Color, error) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	off := b.ToOffset(x, y)
	sw := sampleBytes(b.bitDepth)
	switch b.colorType {
	case pixel.GrayScale:
		return pixel.GrayColor{Gray: b.pix[off]}, nil
	case pixel.GrayScaleAlpha:
		return pixel.GrayAlphaColor{Gray: b.pix[off], Alpha: b.pix[off+sw]}, nil
	case pixel.PaletteIndexed:
		return pixel.IndexColor{Index: b.pix[off]}, nil
	case pixel.RGB:
		return pixel.RGBColor{R: b.pix[off], G: b.pix[off+sw], B: b.pix[off+2*sw]}, nil
	case pixel.RGBA:
		return pixel.RGBAColor{R: b.pix[off], G: b.pix[off+sw], B: b.pix[off+2*sw], A: b.pix[off+3*sw]}, nil
	default:
		return nil, fmt.Errorf("%w: %s", pixel.ErrUnsupportedColorType, b.colorType)
	}
}

// RGBAAt reads the pixel at (x, y) canonicalized to RGBA, resolving
// palette indices through the buffer's palette.
func (b *Buffer) RGBAAt(x, y int) (pixel.RGBAColor, error) {
	c, err := b.ColorAt(x, y)
	if err != nil {
		return pixel.RGBAColor{}, err
	}
	return pixel.ToRGBA(c, b.palette)
}
