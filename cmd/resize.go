package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AnyUserName/pixbuf-cli/internal/codec"
	"github.com/AnyUserName/pixbuf-cli/internal/geom"
	"github.com/AnyUserName/pixbuf-cli/internal/hasher"
	"github.com/AnyUserName/pixbuf-cli/internal/pixel"
	"github.com/spf13/cobra"
)

var (
	resizeOut       string
	resizeWidth     int
	resizeHeight    int
	resizeOffsetX   int
	resizeOffsetY   int
	resizeClip      string
	resizeFill      string
	resizeHashNames bool
)

var resizeCmd = &cobra.Command{
	Use:   "resize <image>",
	Short: "Resize the canvas: crop, pad, offset and fill without resampling",
	Long: `Produces a new canvas of the requested dimensions, filled with the
fill color, with the clip region of the source copied in at the given
offset. Pixel data is moved byte-for-byte; nothing is resampled.

The fill color must match the image's color model:
  gray-scale        --fill vv          (one hex byte)
  gray-scale-alpha  --fill vvaa
  palette           --fill <index>     (decimal palette index)
  rgb               --fill rrggbb
  rgba              --fill rrggbb[aa]`,
	Args: cobra.ExactArgs(1),
	RunE: runResize,
}

func init() {
	resizeCmd.Flags().StringVarP(&resizeOut, "out", "o", "", "output file (default <name>.resized.png)")
	resizeCmd.Flags().IntVar(&resizeWidth, "width", 0, "new canvas width (default source width)")
	resizeCmd.Flags().IntVar(&resizeHeight, "height", 0, "new canvas height (default source height)")
	resizeCmd.Flags().IntVar(&resizeOffsetX, "offset-x", 0, "x placement of the clip on the new canvas")
	resizeCmd.Flags().IntVar(&resizeOffsetY, "offset-y", 0, "y placement of the clip on the new canvas")
	resizeCmd.Flags().StringVar(&resizeClip, "clip", "", "source region x,y,w,h (default full image)")
	resizeCmd.Flags().StringVar(&resizeFill, "fill", "", "fill color for uncovered cells (default black/transparent)")
	resizeCmd.Flags().BoolVar(&resizeHashNames, "hash-names", false, "append a content hash to the output filename")
	rootCmd.AddCommand(resizeCmd)
}

func runResize(_ *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	buf, meta, err := codec.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logVerbose("source: %dx%d %s, %d bytes/pixel", meta.Width, meta.Height, meta.ColorType, buf.BytesPerPixel())

	dims := geom.Pt(resizeWidth, resizeHeight)
	if dims.X == 0 {
		dims.X = buf.Width()
	}
	if dims.Y == 0 {
		dims.Y = buf.Height()
	}

	clip := geom.RectOf(0, 0, buf.Width(), buf.Height())
	if resizeClip != "" {
		clip, err = parseClip(resizeClip)
		if err != nil {
			return err
		}
	}

	fill, err := parseFill(resizeFill, buf.ColorType())
	if err != nil {
		return err
	}

	out, err := buf.ResizeCanvas(dims, geom.Pt(resizeOffsetX, resizeOffsetY), clip, fill)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	logVerbose("canvas: %dx%d, clip %v at (%d,%d)", dims.X, dims.Y, clip, resizeOffsetX, resizeOffsetY)

	// The PNG writer only takes the RGB/RGBA family; flatten the rest.
	if ct := out.ColorType(); ct != pixel.RGB && ct != pixel.RGBA {
		logVerbose("flattening %s to rgba for encoding", ct)
		if out, err = out.Flatten(); err != nil {
			return err
		}
	}

	data, err := codec.EncodePNG(out)
	if err != nil {
		return err
	}

	outPath := resizeOut
	if outPath == "" {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		outPath = base + ".resized.png"
	}
	if resizeHashNames {
		outPath = hashedName(outPath, data)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("%s: %dx%d → %s: %dx%d\n", path, buf.Width(), buf.Height(), outPath, out.Width(), out.Height())
	return nil
}

// parseClip reads "x,y,w,h" into a clip rect.
func parseClip(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("invalid clip %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return geom.Rect{}, fmt.Errorf("invalid clip %q: component %q", s, p)
		}
		v[i] = n
	}
	return geom.RectOf(v[0], v[1], v[2], v[3]), nil
}

// parseFill builds a fill color of the variant the buffer's color type
// requires. An empty value yields the type's zero color (black, fully
// transparent where alpha exists, palette entry 0).
func parseFill(s string, t pixel.ColorType) (pixel.Color, error) {
	if s == "" {
		switch t {
		case pixel.GrayScale:
			return pixel.GrayColor{}, nil
		case pixel.GrayScaleAlpha:
			return pixel.GrayAlphaColor{}, nil
		case pixel.PaletteIndexed:
			return pixel.IndexColor{}, nil
		case pixel.RGB:
			return pixel.RGBColor{}, nil
		default:
			return pixel.RGBAColor{}, nil
		}
	}

	if t == pixel.PaletteIndexed {
		idx, err := strconv.Atoi(s)
		if err != nil || idx < 0 || idx > 0xff {
			return nil, fmt.Errorf("invalid fill %q: want a palette index 0-255", s)
		}
		return pixel.IndexColor{Index: uint8(idx)}, nil
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil {
		return nil, fmt.Errorf("invalid fill %q: %w", s, err)
	}
	switch t {
	case pixel.GrayScale:
		if len(raw) != 1 {
			return nil, fmt.Errorf("invalid fill %q: gray-scale wants one hex byte", s)
		}
		return pixel.GrayColor{Gray: raw[0]}, nil
	case pixel.GrayScaleAlpha:
		if len(raw) != 2 {
			return nil, fmt.Errorf("invalid fill %q: gray-scale-alpha wants two hex bytes", s)
		}
		return pixel.GrayAlphaColor{Gray: raw[0], Alpha: raw[1]}, nil
	case pixel.RGB:
		if len(raw) != 3 {
			return nil, fmt.Errorf("invalid fill %q: rgb wants three hex bytes", s)
		}
		return pixel.RGBColor{R: raw[0], G: raw[1], B: raw[2]}, nil
	case pixel.RGBA:
		switch len(raw) {
		case 3:
			return pixel.RGBAColor{R: raw[0], G: raw[1], B: raw[2], A: 0xff}, nil
		case 4:
			return pixel.RGBAColor{R: raw[0], G: raw[1], B: raw[2], A: raw[3]}, nil
		}
		return nil, fmt.Errorf("invalid fill %q: rgba wants three or four hex bytes", s)
	default:
		return nil, fmt.Errorf("invalid fill %q for color type %s", s, t)
	}
}

// hashedName inserts a short content hash before the extension:
// out.png → out.1a2b3c4d.png.
func hashedName(path string, data []byte) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + hasher.ContentHash(data, 8) + ext
}
