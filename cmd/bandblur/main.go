package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"bandblur/internal/models"
	"bandblur/pkg/codec"
	"bandblur/pkg/config"
	"bandblur/pkg/pipeline"
	"bandblur/pkg/visualization"
)

const defaultConfigPath = "bandblur.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger creates a logger with timestamp formatting
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// flags holds the command line overrides for the config file
type flags struct {
	configPath       string
	input            string
	output           string
	quality          int
	workers          int
	saveIntermediary bool
	intermediaryDir  string
	extractBands     bool
	bandsDir         string
	report           bool
	verbose          bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:   "bandblur",
		Short: "Blur the top and middle thirds of an image and mark the band boundaries",
		Long: `bandblur splits an image into three equal horizontal bands. The top band gets a
15x15 box blur, the middle band a 5x5 Gaussian blur, the bottom band is left as is.
A red line is drawn at 1/3 of the height and a blue line at 2/3.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, stdout, newLogger(stderr, cfg.Output.Verbose))
		},
	}

	fs := root.Flags()
	fs.StringVarP(&f.configPath, "config", "c", defaultConfigPath, "configuration file (YAML or TOML)")
	fs.StringVarP(&f.input, "input", "i", "", "input image (default from config: main.png)")
	fs.StringVarP(&f.output, "output", "o", "", "output image; the extension selects the format (default from config: output.png)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality for .jpg output")
	fs.IntVar(&f.workers, "workers", 0, "goroutines per band (default: number of CPUs)")
	fs.BoolVar(&f.saveIntermediary, "save-intermediary", false, "save an image after every stage")
	fs.StringVar(&f.intermediaryDir, "intermediary-dir", "", "directory for stage images")
	fs.BoolVar(&f.extractBands, "extract-bands", false, "save each band of the result as its own image")
	fs.StringVar(&f.bandsDir, "bands-dir", "", "directory for extracted bands")
	fs.BoolVar(&f.report, "report", false, "print per-band statistics")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newInitConfigCmd(stdout))

	return root
}

func newInitConfigCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.CreateDefaultConfigFile(path); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Wrote default configuration to %s\n", path)
			return nil
		},
	}
}

// loadConfig reads the config file and applies the flags the user set
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.IO.Input = f.input
	}
	if changed("output") {
		cfg.IO.Output = f.output
	}
	if changed("quality") {
		cfg.IO.JPEGQuality = f.quality
	}
	if changed("workers") {
		cfg.Processing.Workers = f.workers
	}
	if changed("save-intermediary") {
		cfg.Output.SaveIntermediaryResults = f.saveIntermediary
	}
	if changed("intermediary-dir") {
		cfg.Output.IntermediaryDir = f.intermediaryDir
	}
	if changed("extract-bands") {
		cfg.Output.ExtractBands = f.extractBands
	}
	if changed("bands-dir") {
		cfg.Output.BandsDir = f.bandsDir
	}
	if changed("report") {
		cfg.Output.Report = f.report
	}
	if changed("verbose") {
		cfg.Output.Verbose = f.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// run loads, processes and saves the image described by cfg
func run(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *log.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()

	processor := pipeline.NewProcessor(&pipeline.Params{
		Workers:                 cfg.Processing.Workers,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         cfg.Output.IntermediaryDir,
		CollectMetrics:          cfg.Output.Report,
		Codec:                   codec.Options{JPEGQuality: cfg.IO.JPEGQuality},
		Logger:                  logger,
	})

	r, err := processor.Run(ctx, cfg.IO.Input, cfg.IO.Output)
	if err != nil {
		return err
	}
	logger.Debugf("Finished in %s", time.Since(start).Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return err
	}

	if cfg.Output.ExtractBands {
		extractBands(r, processor.Layout(), cfg.Output.BandsDir, logger)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if cfg.Output.SaveIntermediaryResults {
		logger.Infof("Stage images saved to %s", cfg.Output.IntermediaryDir)
	}

	if cfg.Output.Report {
		printReport(stdout, processor.Metrics())
	}

	return nil
}

// extractBands saves each band of the result. Failures are reported as
// warnings since the main output has already been written.
func extractBands(r *models.Raster, layout models.BandLayout, dir string, logger *log.Logger) {
	viewer := visualization.NewViewer(r, layout)
	saved, err := viewer.SaveBandSequence(dir)
	if err != nil {
		logger.Warn("failed to extract bands", "dir", dir, "err", err)
	}
	for _, path := range saved {
		logger.Debug("saved band", "path", path)
	}
	if len(saved) > 0 {
		logger.Infof("Saved %d band images to %s", len(saved), dir)
	}
}
