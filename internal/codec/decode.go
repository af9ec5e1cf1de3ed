// Package codec is the boundary between the Go image ecosystem and the
// raster core: it turns a decoded image.Image into a raster.Buffer and
// a raster.Buffer back into an encoded file.
//
// Conversion takes a fast path per concrete image type (direct Pix and
// stride reads, no image.At in the loop); anything else goes through
// the generic color interface.
package codec

import (
	"fmt"
	"image"
	"image/color"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/pixbuf-cli/internal/pixel"
	"github.com/AnyUserName/pixbuf-cli/internal/raster"
)

// Decode reads any registered image format (png, gif, jpeg, bmp, tiff,
// webp) and converts it to a raster buffer plus decode metadata.
func Decode(r io.Reader) (*raster.Buffer, *Metadata, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, nil, err
	}
	return buf, newMetadata(buf, format), nil
}

// FromImage converts a decoded image to a raster buffer, picking the
// color type that preserves the source's channel layout:
//
//	Gray    → gray-scale 8     Gray16    → gray-scale 16
//	NRGBA   → rgba 8           NRGBA64   → rgba 16
//	RGBA    → rgba 8 (un-premultiplied)
//	Paletted→ palette 8        YCbCr     → rgb 8
//
// Everything else flattens to rgba 8 through the generic path.
func FromImage(img image.Image) (*raster.Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	switch src := img.(type) {
	case *image.Gray:
		pix := packRows(src.Pix, src.Stride, bounds.Sub(src.Rect.Min), w, 1)
		return raster.New(w, h, 8, pixel.GrayScale, nil, pix)

	case *image.Gray16:
		pix := packRows(src.Pix, src.Stride, bounds.Sub(src.Rect.Min), w, 2)
		return raster.New(w, h, 16, pixel.GrayScale, nil, pix)

	case *image.NRGBA:
		pix := packRows(src.Pix, src.Stride, bounds.Sub(src.Rect.Min), w, 4)
		return raster.New(w, h, 8, pixel.RGBA, nil, pix)

	case *image.NRGBA64:
		pix := packRows(src.Pix, src.Stride, bounds.Sub(src.Rect.Min), w, 8)
		return raster.New(w, h, 16, pixel.RGBA, nil, pix)

	case *image.RGBA:
		return fromPremultiplied(src, bounds, w, h)

	case *image.Paletted:
		return fromPaletted(src, bounds, w, h)

	case *image.YCbCr:
		return fromYCbCr(src, bounds, w, h)

	default:
		return fromGeneric(img, bounds, w, h)
	}
}

// packRows copies the bounded region out of a strided Pix slice into a
// tightly packed buffer, bpp bytes per pixel.
func packRows(src []byte, stride int, r image.Rectangle, w, bpp int) []byte {
	h := r.Dy()
	pix := make([]byte, w*h*bpp)
	rowBytes := w * bpp
	for y := 0; y < h; y++ {
		off := (r.Min.Y+y)*stride + r.Min.X*bpp
		copy(pix[y*rowBytes:(y+1)*rowBytes], src[off:off+rowBytes])
	}
	return pix
}

// fromPremultiplied un-premultiplies alpha while packing, so the
// buffer holds straight RGBA like every other path.
func fromPremultiplied(src *image.RGBA, bounds image.Rectangle, w, h int) (*raster.Buffer, error) {
	pix := make([]byte, w*h*4)
	r := bounds.Sub(src.Rect.Min)
	di := 0
	for y := 0; y < h; y++ {
		off := (r.Min.Y+y)*src.Stride + r.Min.X*4
		for x := 0; x < w; x++ {
			pr, pg, pb, pa := src.Pix[off], src.Pix[off+1], src.Pix[off+2], src.Pix[off+3]
			if pa != 0 && pa != 0xff {
				pr = uint8((uint32(pr)*0xff + uint32(pa)/2) / uint32(pa))
				pg = uint8((uint32(pg)*0xff + uint32(pa)/2) / uint32(pa))
				pb = uint8((uint32(pb)*0xff + uint32(pa)/2) / uint32(pa))
			}
			pix[di], pix[di+1], pix[di+2], pix[di+3] = pr, pg, pb, pa
			off += 4
			di += 4
		}
	}
	return raster.New(w, h, 8, pixel.RGBA, nil, pix)
}

func fromPaletted(src *image.Paletted, bounds image.Rectangle, w, h int) (*raster.Buffer, error) {
	pal := make(pixel.Palette, len(src.Palette))
	for i, c := range src.Palette {
		r, g, b, _ := c.RGBA()
		pal[i] = pixel.RGBColor{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
	pix := packRows(src.Pix, src.Stride, bounds.Sub(src.Rect.Min), w, 1)
	return raster.New(w, h, 8, pixel.PaletteIndexed, pal, pix)
}

// fromYCbCr converts JPEG's native plane layout to packed rgb 8, the
// only producer of the 3-channel color type in practice.
func fromYCbCr(src *image.YCbCr, bounds image.Rectangle, w, h int) (*raster.Buffer, error) {
	pix := make([]byte, w*h*3)
	di := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			yi := src.YOffset(x, y)
			ci := src.COffset(x, y)
			r, g, b := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
			pix[di], pix[di+1], pix[di+2] = r, g, b
			di += 3
		}
	}
	return raster.New(w, h, 8, pixel.RGB, nil, pix)
}

func fromGeneric(img image.Image, bounds image.Rectangle, w, h int) (*raster.Buffer, error) {
	pix := make([]byte, w*h*4)
	di := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix[di], pix[di+1], pix[di+2], pix[di+3] = c.R, c.G, c.B, c.A
			di += 4
		}
	}
	return raster.New(w, h, 8, pixel.RGBA, nil, pix)
}
