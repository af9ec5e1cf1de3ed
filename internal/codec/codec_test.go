package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/AnyUserName/pixbuf-cli/internal/pixel"
	"github.com/AnyUserName/pixbuf-cli/internal/raster"
)

func TestFromImage_NRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 200})
		}
	}

	buf, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if buf.ColorType() != pixel.RGBA || buf.BitDepth() != 8 {
		t.Fatalf("format: %s depth %d", buf.ColorType(), buf.BitDepth())
	}
	c, err := buf.ColorAt(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c != (pixel.RGBAColor{R: 2, G: 1, B: 7, A: 200}) {
		t.Fatalf("got %v", c)
	}
}

func TestFromImage_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 99})

	buf, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if buf.ColorType() != pixel.GrayScale || buf.BitDepth() != 8 {
		t.Fatalf("format: %s depth %d", buf.ColorType(), buf.BitDepth())
	}
	c, _ := buf.ColorAt(1, 1)
	if c != (pixel.GrayColor{Gray: 99}) {
		t.Fatalf("got %v", c)
	}
}

func TestFromImage_Gray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 1, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 0xAB12})

	buf, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if buf.BitDepth() != 16 || buf.BytesPerPixel() != 2 {
		t.Fatalf("depth %d bpp %d", buf.BitDepth(), buf.BytesPerPixel())
	}
	// ColorAt exposes the 8-bit view: the high byte of the sample.
	c, _ := buf.ColorAt(0, 0)
	if c != (pixel.GrayColor{Gray: 0xAB}) {
		t.Fatalf("got %v", c)
	}
}

func TestFromImage_Paletted(t *testing.T) {
	pal := color.Palette{
		color.RGBA{1, 2, 3, 255},
		color.RGBA{4, 5, 6, 255},
	}
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	img.SetColorIndex(1, 0, 1)

	buf, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if buf.ColorType() != pixel.PaletteIndexed {
		t.Fatalf("color type %s", buf.ColorType())
	}
	if len(buf.Palette()) != 2 {
		t.Fatalf("palette size %d", len(buf.Palette()))
	}
	got, err := buf.RGBAAt(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != (pixel.RGBAColor{R: 4, G: 5, B: 6, A: 0xff}) {
		t.Fatalf("got %v", got)
	}
}

func TestFromImage_RGBA_Unpremultiplies(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// Premultiplied half-alpha red: stored R = 128 at A = 128.
	img.SetRGBA(0, 0, color.RGBA{R: 128, G: 0, B: 0, A: 128})

	buf, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := buf.ColorAt(0, 0)
	rgba := c.(pixel.RGBAColor)
	if rgba.A != 128 {
		t.Fatalf("alpha %d", rgba.A)
	}
	if rgba.R < 253 {
		t.Fatalf("un-premultiplied R = %d, want ≈255", rgba.R)
	}
}

func TestFromImage_SubImageBounds(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			base.SetNRGBA(x, y, color.NRGBA{R: uint8(10*x + y), A: 255})
		}
	}
	sub := base.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	buf, err := FromImage(sub)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width() != 2 || buf.Height() != 2 {
		t.Fatalf("dimensions %dx%d", buf.Width(), buf.Height())
	}
	c, _ := buf.ColorAt(0, 0)
	if c.(pixel.RGBAColor).R != 11 {
		t.Fatalf("sub-image origin pixel: got %v", c)
	}
}

func TestDecode_PNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 50), G: uint8(y * 60), B: 9, A: 255})
		}
	}
	var enc bytes.Buffer
	if err := png.Encode(&enc, img); err != nil {
		t.Fatal(err)
	}

	buf, meta, err := Decode(&enc)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Format != "png" || meta.Width != 5 || meta.Height != 4 {
		t.Fatalf("metadata: %+v", meta)
	}
	if meta.RowBytes != buf.Stride() {
		t.Fatalf("row bytes %d != stride %d", meta.RowBytes, buf.Stride())
	}
	c, _ := buf.ColorAt(4, 3)
	if c != (pixel.RGBAColor{R: 200, G: 180, B: 9, A: 255}) {
		t.Fatalf("got %v", c)
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255, 0, 255, 0, 128,
		0, 0, 255, 255, 10, 20, 30, 0,
	}
	buf, err := raster.New(2, 2, 8, pixel.RGBA, nil, pix)
	if err != nil {
		t.Fatal(err)
	}

	data, err := EncodePNG(buf)
	if err != nil {
		t.Fatal(err)
	}
	decoded, _, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded.Pix(), pix) {
		t.Fatalf("round trip changed pixels:\n got %v\nwant %v", decoded.Pix(), pix)
	}
}

func TestEncodePNG_RejectsNonTrueColor(t *testing.T) {
	for _, c := range []struct {
		ct  pixel.ColorType
		pix []byte
	}{
		{pixel.GrayScale, make([]byte, 4)},
		{pixel.GrayScaleAlpha, make([]byte, 8)},
		{pixel.PaletteIndexed, make([]byte, 4)},
	} {
		buf, err := raster.New(2, 2, 8, c.ct, nil, c.pix)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := EncodePNG(buf); !errors.Is(err, ErrUnencodable) {
			t.Errorf("%s: got %v, want ErrUnencodable", c.ct, err)
		}
	}
}

func TestToImage_RGBExpandsOpaque(t *testing.T) {
	buf, err := raster.New(2, 1, 8, pixel.RGB, nil, []byte{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	img, err := ToImage(buf)
	if err != nil {
		t.Fatal(err)
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("got %T", img)
	}
	want := []byte{1, 2, 3, 255, 4, 5, 6, 255}
	if !bytes.Equal(nrgba.Pix, want) {
		t.Fatalf("got %v, want %v", nrgba.Pix, want)
	}
}
