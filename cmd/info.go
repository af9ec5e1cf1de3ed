package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AnyUserName/pixbuf-cli/internal/codec"
	"github.com/spf13/cobra"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Display pixel-buffer metadata for an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print metadata as JSON")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf, meta, err := codec.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if infoJSON {
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println()
	fmt.Printf("  File:            %s\n", path)
	fmt.Printf("  Format:          %s\n", meta.Format)
	fmt.Printf("  Dimensions:      %dx%d\n", meta.Width, meta.Height)
	fmt.Printf("  Color type:      %s\n", meta.ColorType)
	fmt.Printf("  Bit depth:       %d\n", meta.BitDepth)
	fmt.Printf("  Channels:        %d\n", meta.Channels)
	fmt.Printf("  Bytes per pixel: %d\n", buf.BytesPerPixel())
	fmt.Printf("  Row bytes:       %d\n", meta.RowBytes)
	fmt.Printf("  Alpha:           %v\n", meta.HasAlpha)
	if meta.PaletteSize > 0 {
		fmt.Printf("  Palette:         %d entries\n", meta.PaletteSize)
	}
	fmt.Println()
	return nil
}
