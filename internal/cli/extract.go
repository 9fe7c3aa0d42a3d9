package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dangoware/palettegen/internal/colour"
	"github.com/Dangoware/palettegen/internal/image"
	"github.com/Dangoware/palettegen/internal/util/imagecache"
)

// Output formats accepted by --format.
const (
	formatAuto   = "auto"
	formatSwatch = "swatch"
	formatHex    = "hex"
	formatRGB    = "rgb"
	formatJSON   = "json"
	formatTable  = "table"
)

var validFormats = []string{formatAuto, formatSwatch, formatHex, formatRGB, formatJSON, formatTable}

// extractOptions holds the flags of the extract command.
type extractOptions struct {
	global *globalOptions

	colours            int
	stride             int
	mergeThreshold     float64
	coherenceThreshold float64
	format             string
	output             string
	cache              bool
	cacheDir           string
	watch              bool
}

func newExtractCmd(global *globalOptions) *cobra.Command {
	opts := &extractOptions{global: global}

	cmd := &cobra.Command{
		Use:   "extract <image> [count]",
		Short: "Extract a colour palette from an image",
		Long: `Extract a colour palette from an image.

The image may be a local file, a directory (one image is picked at random),
or an http(s) URL. Files compressed with gzip (.gz), bzip2 (.bz2), xz (.xz)
or zstd (.zst) are decompressed transparently.

Supported image formats: JPEG, PNG, GIF, WebP, AVIF

Examples:
  # Extract 8 colours (default) and show them as swatches
  palettegen extract wallpaper.jpg

  # Extract 5 colours
  palettegen extract wallpaper.jpg 5

  # Sample every pixel and print a weighted table
  palettegen extract --stride 1 --format table wallpaper.png

  # Write JSON to a file
  palettegen extract -f json -o palette.json wallpaper.webp

  # Re-extract every time the file changes
  palettegen extract --watch render.png`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	defaults := colour.DefaultExtractorConfig()
	flags := cmd.Flags()
	flags.IntVarP(&opts.colours, "colours", "c", defaults.ColorCount, fmt.Sprintf("number of colours to extract (0-%d)", colour.MaxColorCount))
	flags.IntVarP(&opts.stride, "stride", "s", defaults.Clustering.Stride, "sample every n-th pixel")
	flags.Float64Var(&opts.mergeThreshold, "merge-threshold", defaults.Clustering.MergeThreshold, "perceptual distance below which a pixel joins a colour group")
	flags.Float64Var(&opts.coherenceThreshold, "coherence-threshold", defaults.Clustering.CoherenceThreshold, "perceptual distance below which a pixel repeating the previous sample is skipped (0 disables)")
	flags.StringVarP(&opts.format, "format", "f", formatAuto, "output format ("+strings.Join(validFormats, ", ")+")")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.BoolVar(&opts.cache, "cache", false, "cache images downloaded from URLs")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "directory for cached downloads (default: user cache dir)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "re-extract whenever the image file changes")

	return cmd
}

// config builds the extractor configuration from the flags.
func (o *extractOptions) config() colour.ExtractorConfig {
	cfg := colour.DefaultExtractorConfig()
	cfg.ColorCount = o.colours
	cfg.Clustering.Stride = o.stride
	cfg.Clustering.MergeThreshold = o.mergeThreshold
	cfg.Clustering.CoherenceThreshold = o.coherenceThreshold
	cfg.Clustering.Logger = o.global.logger.Named("cluster")
	return cfg
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	logger := opts.global.logger

	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid colour count %q: %w", args[1], err)
		}
		opts.colours = n
	}

	config := opts.config()
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := resolveFormat(opts.format, opts.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	imagePath, err := image.ResolveImagePath(args[0])
	if err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	ctx := cmd.Context()
	loaderOpts := []image.SmartLoaderOption{image.WithContext(ctx)}
	if opts.cache {
		loaderOpts = append(loaderOpts, image.WithCache(imagecache.CacheOptions{CacheDir: opts.cacheDir}))
	}
	loader := image.NewSmartLoader(loaderOpts...)
	extractor := colour.NewPerceptualExtractor(config.Clustering)

	run := func() error {
		palette, err := extractFrom(loader, extractor, imagePath, config.ColorCount, opts)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), opts.output, palette, format)
	}

	if err := run(); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return fmt.Errorf("--watch requires a local file")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	logger.Info("watching for changes", "path", imagePath)
	return watchFile(ctx, imagePath, logger, run)
}

// extractFrom loads the image at path and extracts its palette.
func extractFrom(loader image.Loader, extractor colour.Extractor, path string, count int, opts *extractOptions) (*colour.Palette, error) {
	logger := opts.global.logger

	logger.Debug("loading image", "path", path)
	img, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	start := time.Now()
	palette, err := extractor.Extract(img, count)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}
	logger.Debug("extracted palette",
		"colours", palette.Len(),
		"elapsed_us", time.Since(start).Microseconds(),
		"stride", opts.stride)

	return palette, nil
}

// resolveFormat validates format and picks a concrete one for "auto":
// swatches when writing to a terminal, hex otherwise.
func resolveFormat(format, output string, stdout io.Writer) (string, error) {
	switch format {
	case formatSwatch, formatHex, formatRGB, formatJSON, formatTable:
		return format, nil
	case formatAuto:
		if output == "" && isTerminal(stdout) {
			return formatSwatch, nil
		}
		return formatHex, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(validFormats, ", "))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput writes the formatted palette to the output file, or to stdout.
func writeOutput(stdout io.Writer, output string, palette *colour.Palette, format string) error {
	text, err := formatPalette(palette, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil { // #nosec G306 - Palette output is not sensitive
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string) (string, error) {
	var sb strings.Builder

	switch format {
	case formatSwatch:
		if palette.Len() > 0 {
			sb.WriteString(colour.Swatch(palette.ToRGBSlice()))
			sb.WriteString("\n")
		}
	case formatHex:
		for _, hex := range palette.ToHex() {
			sb.WriteString(hex + "\n")
		}
	case formatRGB:
		for _, rgb := range palette.ToRGBSlice() {
			sb.WriteString(rgb.String() + "\n")
		}
	case formatJSON:
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	case formatTable:
		table := NewTable([]string{"#", "Hex", "RGB", "Weight"})
		table.AlignRight(0)
		table.AlignRight(3)
		for i, rgb := range palette.ToRGBSlice() {
			table.AddRow([]string{
				strconv.Itoa(i + 1),
				rgb.Hex(),
				fmt.Sprintf("%d,%d,%d", rgb.R, rgb.G, rgb.B),
				strconv.FormatUint(palette.Weight(i), 10),
			})
		}
		sb.WriteString(table.Render())
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	return sb.String(), nil
}
