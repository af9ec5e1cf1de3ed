package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pixbuf",
	Short: "Inspect and transform decoded raster images",
	Long: `pixbuf — a typed view onto decoded pixel data.

Decodes common raster formats (png, gif, jpeg, bmp, tiff, webp) into a
raw pixel buffer with an explicit color model, then inspects it,
resizes its canvas (crop / pad / offset / fill), flattens it to
canonical RGBA, or resamples it to new dimensions.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pixbuf %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[pixbuf] "+format+"\n", args...)
	}
}
