package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/MeKo-Tech/noisefield/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate many noise fields in parallel",
	Long: `Generate --count fields with consecutive seeds and write them to the output
directory as field_0000.png, field_0001.png, ...

Field i uses seed+i, so a batch is reproducible from its base seed.`,
	RunE: runBatchCommand,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addFieldFlags(batchCmd, "batch")
	batchCmd.Flags().IntP("count", "n", 8, "Number of fields to generate")
	batchCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	batchCmd.Flags().Bool("progress", true, "Show progress bar during batch generation")
	batchCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some fields fail")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"batch.count", "count"},
		{"batch.workers", "workers"},
		{"batch.progress", "progress"},
		{"batch.allow_failures", "allow-failures"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, batchCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// batchOptions controls a batch run.
type batchOptions struct {
	outputDir     string
	count         int
	workers       int
	showProgress  bool
	allowFailures bool
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg, err := readFieldConfig(viper.GetViper(), "batch")
	if err != nil {
		return err
	}

	opts := batchOptions{
		outputDir:     viper.GetString("output-dir"),
		count:         viper.GetInt("batch.count"),
		workers:       viper.GetInt("batch.workers"),
		showProgress:  viper.GetBool("batch.progress"),
		allowFailures: viper.GetBool("batch.allow_failures"),
	}

	ctx, stop := signalContext(logger)
	defer stop()

	_, err = runBatch(ctx, cfg, opts, logger)
	return err
}

// runBatch renders opts.count fields and returns the per-field results.
func runBatch(ctx context.Context, cfg fieldConfig, opts batchOptions, log *slog.Logger) ([]worker.Result, error) {
	if opts.count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", opts.count)
	}

	workers := opts.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	seed := cfg.resolveSeed()

	log.Info("Starting batch field generation",
		"count", opts.count,
		"workers", workers,
		"seed", seed,
		"width", cfg.Params.Width,
		"height", cfg.Params.Height,
		"depth", cfg.Params.Depth,
		"scale", cfg.Params.Scale,
		"source", cfg.Source,
		"blend", cfg.Policy.String(),
		"output_dir", opts.outputDir,
	)

	tasks := make([]worker.Task, opts.count)
	for i := range tasks {
		tasks[i] = worker.Task{
			Name:  fmt.Sprintf("field_%04d", i),
			Seed:  seed + int64(i),
			Index: i,
		}
	}

	progress := worker.NewProgress(len(tasks), opts.showProgress)
	progress.SetSeedRange(tasks[0].Seed, tasks[len(tasks)-1].Seed)

	pool := worker.New(worker.Config{
		Workers:    workers,
		Renderer:   &fieldRenderer{cfg: cfg, dir: opts.outputDir, log: log},
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	var failedCount int
	for _, r := range results {
		if r.Err != nil {
			failedCount++
			log.Error("Field generation failed", "field", r.Task.Name, "seed", r.Task.Seed, "error", r.Err)
			continue
		}
		log.Debug("Field written", "field", r.Task.Name, "path", r.Path, "elapsed", r.Elapsed)
	}

	log.Info(progress.Summary())

	if failedCount > 0 {
		if !opts.allowFailures {
			return results, fmt.Errorf("%d of %d fields failed to generate", failedCount, len(tasks))
		}
		log.Warn("Some fields failed to generate, but continuing due to --allow-failures flag", "failed_count", failedCount)
	}

	return results, nil
}
