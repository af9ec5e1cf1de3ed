package raster

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/pixbuf-cli/internal/geom"
	"github.com/AnyUserName/pixbuf-cli/internal/pixel"
)

// ErrInvalidResize reports a resize whose geometry preconditions do
// not hold; the wrapped message names the violated constraint.
var ErrInvalidResize = errors.New("invalid resize")

// ResizeCanvas produces a new buffer of dims pixels: every cell
// initialized to fill, with the source region clip copied to the
// destination at offset. Crop, pad and reposition are all expressions
// of the same operation. The source buffer is never modified; the
// result shares no storage with it.
//
// The fill color must match the buffer's color type, the placed clip
// must fit inside the new canvas, and the clip must fit inside the
// source. All three are checked before anything is allocated. A clip
// of zero width or height is legal and yields an all-fill canvas.
func (b *Buffer) ResizeCanvas(dims, offset geom.XY, clip geom.Rect, fill pixel.Color) (*Buffer, error) {
	if !pixel.Matches(fill, b.colorType) {
		return nil, fmt.Errorf("%w: fill color %T does not match buffer color type %s",
			pixel.ErrColorTypeMismatch, fill, b.colorType)
	}
	if dims.X <= 0 || dims.Y <= 0 {
		return nil, fmt.Errorf("%w: new canvas %dx%d must be positive", ErrInvalidResize, dims.X, dims.Y)
	}
	if offset.X+clip.W > dims.X || offset.Y+clip.H > dims.Y {
		return nil, fmt.Errorf("%w: clip %dx%d at offset (%d,%d) exceeds new canvas %dx%d",
			ErrInvalidResize, clip.W, clip.H, offset.X, offset.Y, dims.X, dims.Y)
	}
	if clip.X+clip.W > b.width || clip.Y+clip.H > b.height {
		return nil, fmt.Errorf("%w: clip (%d,%d,%d,%d) exceeds source canvas %dx%d",
			ErrInvalidResize, clip.X, clip.Y, clip.W, clip.H, b.width, b.height)
	}

	bpp := b.BytesPerPixel()
	pix := make([]byte, dims.X*dims.Y*bpp)

	// Flood the canvas with the fill color: encode one cell, then
	// double the initialized prefix until the buffer is covered.
	encodeCell(pix[:bpp], fill, sampleBytes(b.bitDepth))
	for n := bpp; n < len(pix); n *= 2 {
		copy(pix[n:], pix[:n])
	}

	// Row-by-row region copy. bytesPerPixel and colorType are unchanged
	// by a resize, so bytes move without reinterpretation.
	rowBytes := clip.W * bpp
	for row := 0; row < clip.H; row++ {
		src := b.ToOffset(clip.X, clip.Y+row)
		dst := (offset.X + (offset.Y+row)*dims.X) * bpp
		copy(pix[dst:dst+rowBytes], b.pix[src:src+rowBytes])
	}

	return &Buffer{
		width:     dims.X,
		height:    dims.Y,
		bitDepth:  b.bitDepth,
		colorType: b.colorType,
		stride:    dims.X * bpp,
		palette:   b.palette,
		pix:       pix,
	}, nil
}

// encodeCell writes a color into one pixel cell. Each channel byte
// lands in the leading (high) byte of its sample; trailing sample
// bytes stay zero, so ColorAt on a filled cell returns the fill color
// unchanged at any bit depth.
func encodeCell(cell []byte, c pixel.Color, sampleWidth int) {
	switch v := c.(type) {
	case pixel.GrayColor:
		cell[0] = v.Gray
	case pixel.GrayAlphaColor:
		cell[0] = v.Gray
		cell[sampleWidth] = v.Alpha
	case pixel.IndexColor:
		cell[0] = v.Index
	case pixel.RGBColor:
		cell[0] = v.R
		cell[sampleWidth] = v.G
		cell[2*sampleWidth] = v.B
	case pixel.RGBAColor:
		cell[0] = v.R
		cell[sampleWidth] = v.G
		cell[2*sampleWidth] = v.B
		cell[3*sampleWidth] = v.A
	}
}

// Flatten converts the buffer to an 8-bit RGBA buffer, resolving every
// pixel through the canonical conversion (palette indices included).
// Used before handing a buffer to an encoder that only accepts the
// RGB/RGBA family.
func (b *Buffer) Flatten() (*Buffer, error) {
	pix := make([]byte, b.width*b.height*4)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c, err := b.RGBAAt(x, y)
			if err != nil {
				return nil, fmt.Errorf("flatten (%d,%d): %w", x, y, err)
			}
			i := (y*b.width + x) * 4
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
		}
	}
	return &Buffer{
		width:     b.width,
		height:    b.height,
		bitDepth:  8,
		colorType: pixel.RGBA,
		stride:    b.width * 4,
		pix:       pix,
	}, nil
}
