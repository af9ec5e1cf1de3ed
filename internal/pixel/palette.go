package pixel

import "fmt"

// Palette is an ordered index→RGB lookup table for palette-indexed
// buffers. Entries are dense from 0; a nil Palette resolves nothing.
type Palette []RGBColor

// Lookup resolves an index to its RGB entry.
func (p Palette) Lookup(index int) (RGBColor, error) {
	if p == nil {
		return RGBColor{}, fmt.Errorf("%w: no palette available", ErrPaletteMissing)
	}
	if index < 0 || index >= len(p) {
		return RGBColor{}, fmt.Errorf("%w: index %d not in palette of %d entries",
			ErrPaletteMissing, index, len(p))
	}
	return p[index], nil
}
