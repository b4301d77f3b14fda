package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/MeKo-Tech/noisefield/internal/noise"
	"github.com/MeKo-Tech/noisefield/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single noise field",
	Long: `Generate one multi-octave noise field and write it as a grayscale PNG.

Each octave samples a coarser random grid; the grids are blended into a dense
field whose values lie in [0, 1]. With --clamp the image is binarized at 0.5.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addFieldFlags(generateCmd, "generate")
	generateCmd.Flags().StringP("output", "o", "", "Output PNG path (default: <output-dir>/field_<seed>.png)")

	if err := viper.BindPFlag("generate.output", generateCmd.Flags().Lookup("output")); err != nil {
		panic(fmt.Sprintf("failed to bind flag output: %v", err))
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg, err := readFieldConfig(viper.GetViper(), "generate")
	if err != nil {
		return err
	}

	seed := cfg.resolveSeed()
	output := viper.GetString("generate.output")
	if output == "" {
		output = filepath.Join(viper.GetString("output-dir"), fmt.Sprintf("field_%d.png", seed))
	}

	ctx, stop := signalContext(logger)
	defer stop()

	// Verbose runs log every stage instead of redrawing a status line.
	status := worker.NewProgress(1, !viper.GetBool("verbose"))
	status.SetSeedRange(seed, seed)

	return generateField(ctx, cfg, seed, output, status, logger)
}

// generateField renders one field to output, showing its stages on status
// and logging them at debug level.
func generateField(ctx context.Context, cfg fieldConfig, seed int64, output string, status *worker.Progress, log *slog.Logger) error {
	log.Info("Starting field generation",
		"width", cfg.Params.Width,
		"height", cfg.Params.Height,
		"depth", cfg.Params.Depth,
		"scale", cfg.Params.Scale,
		"clamp", cfg.Params.Clamp,
		"seed", seed,
		"source", cfg.Source,
		"blend", cfg.Policy.String(),
		"renderer", cfg.Renderer,
		"output", output,
	)

	events := &noise.EventLog{}
	reporter := noise.Tee(events, status, logReporter(log, slog.LevelDebug))
	if err := renderField(ctx, cfg, seed, output, reporter, log); err != nil {
		return stageError(events, err)
	}

	log.Info("Field written", "path", output, "seed", seed, "stage", status.Stage())
	return nil
}
