package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/MeKo-Tech/noisefield/internal/noise"
	"github.com/MeKo-Tech/noisefield/internal/render"
	"github.com/MeKo-Tech/noisefield/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	rendererRaster = "raster"
	rendererCanvas = "canvas"
)

// fieldConfig holds everything needed to generate and write one field.
type fieldConfig struct {
	Params      noise.Params
	Seed        int64
	Source      string
	Policy      noise.Policy
	Renderer    string
	CellSize    float64
	Soften      float64
	Compression png.CompressionLevel
	// Palette is nil for plain grayscale output.
	Palette     *render.Palette
}

// addFieldFlags registers the flags shared by generate and batch and binds
// them below prefix.
func addFieldFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().Int("width", 256, "Field width in cells")
	cmd.Flags().Int("height", 256, "Field height in cells")
	cmd.Flags().IntP("depth", "d", 8, "Number of octaves")
	cmd.Flags().Float64P("scale", "s", 2, "Cell size multiplier per octave")
	cmd.Flags().Bool("clamp", false, "Binarize values at 0.5 when rendering")
	cmd.Flags().Int64("seed", 0, "Random seed (0 picks one from system entropy)")
	cmd.Flags().String("source", "random", "Random source: random or perlin")
	cmd.Flags().String("blend", "chained", "Blend policy: chained or average")
	cmd.Flags().String("renderer", rendererRaster, "Renderer: raster or canvas")
	cmd.Flags().Float64("cell-size", 1, "Output pixels per field cell")
	cmd.Flags().Float64("soften", 0, "Gaussian blur sigma applied to the image (0 disables)")
	cmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	cmd.Flags().String("ink", "", "Hex color for intensity 0 (e.g. #1b2a49); enables colorized output")
	cmd.Flags().String("paper", "", "Hex color for intensity 1 (e.g. #f4ecd8); enables colorized output")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"width", "width"},
		{"height", "height"},
		{"depth", "depth"},
		{"scale", "scale"},
		{"clamp", "clamp"},
		{"seed", "seed"},
		{"source", "source"},
		{"blend", "blend"},
		{"renderer", "renderer"},
		{"cell_size", "cell-size"},
		{"soften", "soften"},
		{"png_compression", "png-compression"},
		{"ink", "ink"},
		{"paper", "paper"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(prefix+"."+bf.key, cmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// readFieldConfig reads and validates the field settings stored below prefix.
func readFieldConfig(v *viper.Viper, prefix string) (fieldConfig, error) {
	key := func(name string) string { return prefix + "." + name }

	cfg := fieldConfig{
		Params: noise.Params{
			Width:  v.GetInt(key("width")),
			Height: v.GetInt(key("height")),
			Depth:  v.GetInt(key("depth")),
			Scale:  v.GetFloat64(key("scale")),
			Clamp:  v.GetBool(key("clamp")),
		},
		Seed:     v.GetInt64(key("seed")),
		Source:   v.GetString(key("source")),
		Renderer: v.GetString(key("renderer")),
		CellSize: v.GetFloat64(key("cell_size")),
		Soften:   v.GetFloat64(key("soften")),
	}

	if err := cfg.Params.Validate(); err != nil {
		return fieldConfig{}, err
	}
	if cfg.Params.Width == 0 || cfg.Params.Height == 0 {
		return fieldConfig{}, fmt.Errorf("cannot write an empty image: size is %dx%d", cfg.Params.Width, cfg.Params.Height)
	}

	policy, err := noise.ParsePolicy(v.GetString(key("blend")))
	if err != nil {
		return fieldConfig{}, err
	}
	cfg.Policy = policy

	if _, err := noise.SourceByName(cfg.Source, 1); err != nil {
		return fieldConfig{}, err
	}

	if cfg.Renderer != rendererRaster && cfg.Renderer != rendererCanvas {
		return fieldConfig{}, fmt.Errorf("invalid renderer %q: must be 'raster' or 'canvas'", cfg.Renderer)
	}
	if cfg.CellSize < 1 {
		return fieldConfig{}, fmt.Errorf("cell-size must be at least 1, got %g", cfg.CellSize)
	}
	if cfg.Renderer == rendererRaster && cfg.CellSize != math.Trunc(cfg.CellSize) {
		return fieldConfig{}, fmt.Errorf("raster renderer needs a whole cell-size, got %g", cfg.CellSize)
	}
	if cfg.Soften < 0 {
		return fieldConfig{}, fmt.Errorf("soften must be non-negative, got %g", cfg.Soften)
	}

	level, err := render.ParsePNGCompression(v.GetString(key("png_compression")))
	if err != nil {
		return fieldConfig{}, err
	}
	cfg.Compression = level

	palette, err := readPalette(v.GetString(key("ink")), v.GetString(key("paper")))
	if err != nil {
		return fieldConfig{}, err
	}
	cfg.Palette = palette

	return cfg, nil
}

// readPalette returns nil when neither color is set. A missing color
// falls back to the grayscale end it replaces.
func readPalette(ink, paper string) (*render.Palette, error) {
	if ink == "" && paper == "" {
		return nil, nil
	}

	palette := render.GrayPalette
	if ink != "" {
		c, err := render.ParseHexColor(ink)
		if err != nil {
			return nil, fmt.Errorf("invalid ink: %w", err)
		}
		palette.Ink = c
	}
	if paper != "" {
		c, err := render.ParseHexColor(paper)
		if err != nil {
			return nil, fmt.Errorf("invalid paper: %w", err)
		}
		palette.Paper = c
	}
	return &palette, nil
}

// resolveSeed replaces a zero seed with one drawn from system entropy.
func (c fieldConfig) resolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return noise.EntropySeed()
}

// image renders f with the configured renderer.
func (c fieldConfig) image(f *noise.Field) (image.Image, error) {
	var img image.Image
	switch c.Renderer {
	case rendererCanvas:
		painted, err := render.Paint(f, render.PaintOptions{CellSize: c.CellSize, Clamp: c.Params.Clamp})
		if err != nil {
			return nil, fmt.Errorf("failed to paint field: %w", err)
		}
		img = painted
	default:
		img = render.Upscale(render.ToGray(f, c.Params.Clamp), int(c.CellSize))
	}
	img = render.Soften(img, float32(c.Soften))
	if c.Palette != nil {
		img = render.Colorize(img, *c.Palette)
	}
	return img, nil
}

// renderField generates one field from seed and writes it to path as PNG.
func renderField(ctx context.Context, cfg fieldConfig, seed int64, path string, reporter noise.Reporter, log *slog.Logger) error {
	src, err := noise.SourceByName(cfg.Source, seed)
	if err != nil {
		return err
	}

	gen := noise.NewGenerator(src, noise.GeneratorOptions{
		Reporter: reporter,
		Logger:   log,
		Policy:   cfg.Policy,
	})

	f, err := gen.Generate(ctx, cfg.Params)
	if err != nil {
		return fmt.Errorf("failed to generate field: %w", err)
	}

	img, err := cfg.image(f)
	if err != nil {
		return err
	}

	if err := render.WritePNG(path, img, cfg.Compression); err != nil {
		return fmt.Errorf("failed to write field: %w", err)
	}
	return nil
}

// logReporter forwards generation progress to log.
func logReporter(log *slog.Logger, level slog.Level, attrs ...any) noise.Reporter {
	return noise.ReporterFunc(func(done bool, message string) {
		log.Log(context.Background(), level, message, append([]any{"done", done}, attrs...)...)
	})
}

// fieldRenderer renders batch tasks into dir.
type fieldRenderer struct {
	log *slog.Logger
	dir string
	cfg fieldConfig
}

func (r *fieldRenderer) Render(ctx context.Context, task worker.Task) (string, error) {
	path := filepath.Join(r.dir, task.Name+".png")
	log := r.log.With("field", task.Name, "seed", task.Seed)

	events := &noise.EventLog{}
	if err := renderField(ctx, r.cfg, task.Seed, path, noise.Tee(events, logReporter(log, slog.LevelDebug)), log); err != nil {
		return "", stageError(events, err)
	}
	return path, nil
}

// stageError annotates err with the last stage a generation reported.
func stageError(events *noise.EventLog, err error) error {
	last, ok := events.Last()
	if !ok {
		return err
	}
	return fmt.Errorf("%w (last stage: %q)", err, last.Message)
}
