// Package pixel models decoded pixel values: the closed set of color
// types a buffer can carry, one concrete color struct per type, and
// canonical conversion of any of them to RGBA.
//
// A color value's concrete type always matches the ColorType of the
// buffer it was read from. Supplying a mismatched value (an RGBColor
// fill for a palette buffer, say) is a contract violation surfaced as
// ErrColorTypeMismatch, never a silent coercion.
package pixel

import (
	"errors"
	"fmt"
)

// ColorType identifies the pixel encoding family of a buffer.
type ColorType uint8

const (
	GrayScale ColorType = iota
	GrayScaleAlpha
	PaletteIndexed
	RGB
	RGBA
)

var (
	// ErrUnsupportedColorType reports a ColorType outside the closed
	// enumeration above.
	ErrUnsupportedColorType = errors.New("unsupported color type")

	// ErrPaletteMissing reports an RGBA conversion of a palette index
	// without a palette, or an index the palette does not contain.
	ErrPaletteMissing = errors.New("palette missing")

	// ErrColorTypeMismatch reports a color value whose variant does not
	// match the color type it is used against.
	ErrColorTypeMismatch = errors.New("color type mismatch")
)

// Channels returns the channel count for the color type.
func (t ColorType) Channels() (int, error) {
	switch t {
	case GrayScale, PaletteIndexed:
		return 1, nil
	case GrayScaleAlpha:
		return 2, nil
	case RGB:
		return 3, nil
	case RGBA:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedColorType, t)
	}
}

// HasAlpha reports whether the color type carries an alpha channel.
func (t ColorType) HasAlpha() bool {
	return t == GrayScaleAlpha || t == RGBA
}

func (t ColorType) String() string {
	switch t {
	case GrayScale:
		return "gray-scale"
	case GrayScaleAlpha:
		return "gray-scale-alpha"
	case PaletteIndexed:
		return "palette"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	default:
		return fmt.Sprintf("color-type(%d)", uint8(t))
	}
}

// Color is a decoded pixel value. Exactly one concrete struct exists
// per ColorType; Type reports which.
type Color interface {
	Type() ColorType
}

// GrayColor is a single-channel gray sample.
type GrayColor struct {
	Gray uint8
}

// GrayAlphaColor is a gray sample with alpha.
type GrayAlphaColor struct {
	Gray  uint8
	Alpha uint8
}

// IndexColor is an index into a palette.
type IndexColor struct {
	Index uint8
}

// RGBColor is an opaque true-color sample.
type RGBColor struct {
	R, G, B uint8
}

// RGBAColor is a true-color sample with alpha; the canonical form every
// other variant converts to.
type RGBAColor struct {
	R, G, B, A uint8
}

func (GrayColor) Type() ColorType      { return GrayScale }
func (GrayAlphaColor) Type() ColorType { return GrayScaleAlpha }
func (IndexColor) Type() ColorType     { return PaletteIndexed }
func (RGBColor) Type() ColorType       { return RGB }
func (RGBAColor) Type() ColorType      { return RGBA }

// Matches reports whether the color value's variant is the one the
// color type requires. Used to validate fill colors before a resize.
func Matches(c Color, t ColorType) bool {
	return c != nil && c.Type() == t
}

// ToRGBA canonicalizes any color value to RGBA. Gray variants replicate
// the gray sample across R, G and B; variants without alpha become
// fully opaque. Palette indices are resolved through p.
func ToRGBA(c Color, p Palette) (RGBAColor, error) {
	switch v := c.(type) {
	case GrayColor:
		return RGBAColor{v.Gray, v.Gray, v.Gray, 0xff}, nil
	case GrayAlphaColor:
		return RGBAColor{v.Gray, v.Gray, v.Gray, v.Alpha}, nil
	case IndexColor:
		rgb, err := p.Lookup(int(v.Index))
		if err != nil {
			return RGBAColor{}, err
		}
		return RGBAColor{rgb.R, rgb.G, rgb.B, 0xff}, nil
	case RGBColor:
		return RGBAColor{v.R, v.G, v.B, 0xff}, nil
	case RGBAColor:
		return v, nil
	default:
		return RGBAColor{}, fmt.Errorf("%w: %T", ErrUnsupportedColorType, c)
	}
}
