package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/pixbuf-cli/internal/codec"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <image>",
	Short: "Flatten any image to canonical RGBA and write it as PNG",
	Long: `Resolves every pixel to canonical RGBA — gray samples replicated
across channels, palette indices looked up, missing alpha made opaque —
and writes the result as an 8-bit RGBA PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <name>.rgba.png)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
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
	logVerbose("source: %dx%d %s", meta.Width, meta.Height, meta.ColorType)

	flat, err := buf.Flatten()
	if err != nil {
		return fmt.Errorf("flatten %s: %w", path, err)
	}

	data, err := codec.EncodePNG(flat)
	if err != nil {
		return err
	}

	outPath := exportOut
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".rgba.png"
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Printf("%s: %s → %s: rgba\n", path, meta.ColorType, outPath)
	return nil
}
