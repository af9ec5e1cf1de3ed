package cmd

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/AnyUserName/pixbuf-cli/internal/hasher"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

var (
	scaleOut       string
	scaleWidth     int
	scaleHeight    int
	scaleFilter    string
	scaleQuality   int
	scaleWorkers   int
	scaleHashNames bool
)

var scaleFilters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

var scaleCmd = &cobra.Command{
	Use:   "scale <file_or_dir>",
	Short: "Resample images to new dimensions",
	Long: `Unlike resize, scale interpolates pixel values. Takes a single image
or a directory (processed in parallel) and writes resampled copies.

With only --width set, height follows the source aspect ratio.`,
	Args: cobra.ExactArgs(1),
	RunE: runScale,
}

func init() {
	scaleCmd.Flags().StringVarP(&scaleOut, "out", "o", "./pixbuf_out", "output directory")
	scaleCmd.Flags().IntVar(&scaleWidth, "width", 0, "target width")
	scaleCmd.Flags().IntVar(&scaleHeight, "height", 0, "target height (0 = keep aspect ratio)")
	scaleCmd.Flags().StringVar(&scaleFilter, "filter", "lanczos", "resample filter: nearest, box, linear, catmullrom, lanczos")
	scaleCmd.Flags().IntVarP(&scaleQuality, "quality", "q", 90, "jpeg quality 1-100")
	scaleCmd.Flags().IntVarP(&scaleWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	scaleCmd.Flags().BoolVar(&scaleHashNames, "hash-names", false, "append a content hash to output filenames")
	rootCmd.AddCommand(scaleCmd)
}

// imageExtensions lists recognized input file extensions.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

func runScale(_ *cobra.Command, args []string) error {
	if scaleWidth <= 0 && scaleHeight <= 0 {
		return fmt.Errorf("at least one of --width and --height is required")
	}
	filter, ok := scaleFilters[scaleFilter]
	if !ok {
		return fmt.Errorf("unknown filter %q", scaleFilter)
	}

	inputs, err := collectInputs(args[0])
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no images found in %s", args[0])
	}
	logVerbose("found %d images", len(inputs))

	if err := os.MkdirAll(scaleOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	workers := scaleWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Bounded fan-out; results land in per-input slots so reporting
	// order stays deterministic.
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, in := range inputs {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			errs[idx] = scaleOne(path, filter)
		}(i, in)
	}
	wg.Wait()

	var failed int
	for i, err := range errs {
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[pixbuf] error: %s: %v\n", inputs[i], err)
		}
	}
	if failed == len(inputs) {
		return fmt.Errorf("all %d images failed", failed)
	}
	fmt.Printf("scaled %d images → %s\n", len(inputs)-failed, scaleOut)
	return nil
}

// collectInputs returns the single file, or every recognized image
// directly inside the directory.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var inputs []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			inputs = append(inputs, filepath.Join(path, e.Name()))
		}
	}
	return inputs, nil
}

func scaleOne(path string, filter imaging.ResampleFilter) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	w, h := scaleWidth, scaleHeight
	if h == 0 {
		b := img.Bounds()
		h = int(float64(b.Dy()) * float64(w) / float64(b.Dx()))
		if h < 1 {
			h = 1
		}
	}
	resized := imaging.Resize(img, w, h, filter)
	logVerbose("scaled %s to %dx%d", path, w, h)

	return writeScaled(path, resized)
}

func writeScaled(srcPath string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(srcPath))
	format := imaging.PNG
	outExt := ".png"
	if ext == ".jpg" || ext == ".jpeg" {
		format = imaging.JPEG
		outExt = ".jpg"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(scaleQuality)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data := buf.Bytes()

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	name := base + outExt
	if scaleHashNames {
		name = base + "." + hasher.ContentHash(data, 8) + outExt
	}
	outPath := filepath.Join(scaleOut, name)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
