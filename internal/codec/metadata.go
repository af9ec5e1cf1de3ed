package codec

import (
	"time"

	"github.com/AnyUserName/pixbuf-cli/internal/raster"
)

// Metadata is the decode-side record handed to consumers alongside the
// pixel buffer. The optional fields mirror what a full container
// decoder can report (gamma, physical pixel density, canvas offsets,
// background color, capture time); the stdlib decoders populate only
// the structural fields.
type Metadata struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	BitDepth  int    `json:"bit_depth"`
	ColorType string `json:"color_type"`
	Channels  int    `json:"channels"`
	RowBytes  int    `json:"row_bytes"`
	HasAlpha  bool   `json:"has_alpha"`
	Format    string `json:"format"`

	PaletteSize int `json:"palette_size,omitempty"`

	Gamma           float64    `json:"gamma,omitempty"`
	PixelsPerMeterX uint32     `json:"pixels_per_meter_x,omitempty"`
	PixelsPerMeterY uint32     `json:"pixels_per_meter_y,omitempty"`
	OffsetX         int        `json:"offset_x,omitempty"`
	OffsetY         int        `json:"offset_y,omitempty"`
	BackgroundColor *[3]uint8  `json:"background_color,omitempty"`
	CapturedAt      *time.Time `json:"captured_at,omitempty"`
}

func newMetadata(b *raster.Buffer, format string) *Metadata {
	return &Metadata{
		Width:       b.Width(),
		Height:      b.Height(),
		BitDepth:    b.BitDepth(),
		ColorType:   b.ColorType().String(),
		Channels:    b.Channels(),
		RowBytes:    b.Stride(),
		HasAlpha:    b.ColorType().HasAlpha(),
		Format:      format,
		PaletteSize: len(b.Palette()),
	}
}
