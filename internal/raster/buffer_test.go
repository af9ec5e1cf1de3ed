package raster

import (
	"errors"
	"testing"

	"github.com/AnyUserName/pixbuf-cli/internal/geom"
	"github.com/AnyUserName/pixbuf-cli/internal/pixel"
)

func mustNew(t *testing.T, w, h, depth int, ct pixel.ColorType, pal pixel.Palette, pix []byte) *Buffer {
	t.Helper()
	b, err := New(w, h, depth, ct, pal, pix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name  string
		w, h  int
		depth int
		ct    pixel.ColorType
		pix   int // byte length
	}{
		{"zero width", 0, 4, 8, pixel.RGBA, 0},
		{"zero height", 4, 0, 8, pixel.RGBA, 0},
		{"bad bit depth", 4, 4, 3, pixel.RGBA, 64},
		{"short buffer", 4, 4, 8, pixel.RGBA, 63},
		{"long buffer", 4, 4, 8, pixel.RGBA, 65},
	}
	for _, c := range cases {
		if _, err := New(c.w, c.h, c.depth, c.ct, nil, make([]byte, c.pix)); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestNew_UnsupportedColorType(t *testing.T) {
	_, err := New(4, 4, 8, pixel.ColorType(9), nil, make([]byte, 64))
	if !errors.Is(err, pixel.ErrUnsupportedColorType) {
		t.Fatalf("got %v, want ErrUnsupportedColorType", err)
	}
}

func TestBytesPerPixel(t *testing.T) {
	cases := []struct {
		ct    pixel.ColorType
		depth int
		want  int
	}{
		{pixel.GrayScale, 1, 1},
		{pixel.GrayScale, 8, 1},
		{pixel.GrayScale, 16, 2},
		{pixel.GrayScaleAlpha, 8, 2},
		{pixel.GrayScaleAlpha, 16, 4},
		{pixel.PaletteIndexed, 4, 1},
		{pixel.PaletteIndexed, 8, 1},
		{pixel.RGB, 8, 3},
		{pixel.RGB, 16, 6},
		{pixel.RGBA, 8, 4},
		{pixel.RGBA, 16, 8},
	}
	for _, c := range cases {
		b := mustNew(t, 2, 2, c.depth, c.ct, nil, make([]byte, 4*c.want))
		if got := b.BytesPerPixel(); got != c.want {
			t.Errorf("%s depth %d: bpp = %d, want %d", c.ct, c.depth, got, c.want)
		}
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	geometries := []struct {
		w, h  int
		ct    pixel.ColorType
		depth int
	}{
		{7, 5, pixel.RGBA, 8},
		{1, 1, pixel.GrayScale, 8},
		{16, 3, pixel.RGB, 8},
		{4, 9, pixel.GrayScaleAlpha, 16},
	}
	for _, g := range geometries {
		bpp, _ := g.ct.Channels()
		bpp *= (g.depth + 7) / 8
		b := mustNew(t, g.w, g.h, g.depth, g.ct, nil, make([]byte, g.w*g.h*bpp))
		for y := 0; y < g.h; y++ {
			for x := 0; x < g.w; x++ {
				got := b.ToCoordinates(b.ToOffset(x, y))
				if got != geom.Pt(x, y) {
					t.Fatalf("%dx%d %s: round trip (%d,%d) = %v", g.w, g.h, g.ct, x, y, got)
				}
			}
		}
	}
}

func TestColorAt(t *testing.T) {
	t.Run("gray", func(t *testing.T) {
		b := mustNew(t, 2, 1, 8, pixel.GrayScale, nil, []byte{10, 20})
		c, err := b.ColorAt(1, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c != (pixel.GrayColor{Gray: 20}) {
			t.Fatalf("got %v", c)
		}
	})

	t.Run("gray-alpha", func(t *testing.T) {
		b := mustNew(t, 1, 2, 8, pixel.GrayScaleAlpha, nil, []byte{1, 2, 3, 4})
		c, err := b.ColorAt(0, 1)
		if err != nil {
			t.Fatal(err)
		}
		if c != (pixel.GrayAlphaColor{Gray: 3, Alpha: 4}) {
			t.Fatalf("got %v", c)
		}
	})

	t.Run("palette", func(t *testing.T) {
		pal := pixel.Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 0, B: 0}}
		b := mustNew(t, 2, 1, 8, pixel.PaletteIndexed, pal, []byte{0, 1})
		c, err := b.ColorAt(1, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c != (pixel.IndexColor{Index: 1}) {
			t.Fatalf("got %v", c)
		}
	})

	t.Run("rgb", func(t *testing.T) {
		b := mustNew(t, 2, 1, 8, pixel.RGB, nil, []byte{1, 2, 3, 4, 5, 6})
		c, err := b.ColorAt(1, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c != (pixel.RGBColor{R: 4, G: 5, B: 6}) {
			t.Fatalf("got %v", c)
		}
	})

	t.Run("rgba", func(t *testing.T) {
		b := mustNew(t, 1, 1, 8, pixel.RGBA, nil, []byte{1, 2, 3, 4})
		c, err := b.ColorAt(0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c != (pixel.RGBAColor{R: 1, G: 2, B: 3, A: 4}) {
			t.Fatalf("got %v", c)
		}
	})

	t.Run("rgba 16-bit reads sample high bytes", func(t *testing.T) {
		// Big-endian samples: high byte first.
		pix := []byte{0xAA, 0x01, 0xBB, 0x02, 0xCC, 0x03, 0xDD, 0x04}
		b := mustNew(t, 1, 1, 16, pixel.RGBA, nil, pix)
		c, err := b.ColorAt(0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c != (pixel.RGBAColor{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xDD}) {
			t.Fatalf("got %v", c)
		}
	})
}

func TestColorAt_OutOfBounds(t *testing.T) {
	b := mustNew(t, 3, 2, 8, pixel.GrayScale, nil, make([]byte, 6))
	for _, p := range []geom.XY{{X: 3, Y: 0}, {X: 0, Y: 2}, {X: -1, Y: 0}, {X: 0, Y: -1}, {X: 3, Y: 2}} {
		if _, err := b.ColorAt(p.X, p.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("(%d,%d): got %v, want ErrOutOfBounds", p.X, p.Y, err)
		}
	}
}

func TestRGBAAt_ResolvesPalette(t *testing.T) {
	pal := pixel.Palette{{R: 7, G: 8, B: 9}}
	b := mustNew(t, 1, 1, 8, pixel.PaletteIndexed, pal, []byte{0})
	got, err := b.RGBAAt(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != (pixel.RGBAColor{R: 7, G: 8, B: 9, A: 0xff}) {
		t.Fatalf("got %v", got)
	}
}
