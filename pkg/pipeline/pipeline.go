// Package pipeline partitions a raster into three horizontal bands and runs
// the band filters and the marker overlay over it.
//
// The driver is strictly sequential: the box blur over the top band is
// committed before the Gaussian blur over the middle band takes its
// snapshot, and the markers are drawn last. The bottom band is left as is.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"bandblur/internal/models"
	"bandblur/pkg/blur"
	"bandblur/pkg/codec"
	"bandblur/pkg/overlay"
)

// Params holds the processing parameters. None of them change the pixels
// produced; they control speed and what gets written alongside the result.
type Params struct {
	// Workers is the number of goroutines sharing the rows of each band.
	Workers int

	// SaveIntermediaryResults saves an image after every stage.
	SaveIntermediaryResults bool

	// IntermediaryDir is the directory where stage images are saved.
	// Only used when SaveIntermediaryResults is true.
	IntermediaryDir string

	// CollectMetrics computes per-band statistics of the input and result.
	CollectMetrics bool

	// Codec controls how the output image is encoded.
	Codec codec.Options

	// Logger receives progress messages. Nil means log.Default().
	Logger *log.Logger
}

// stage is one filter pass over one band
type stage struct {
	name     string
	position models.BandPosition
	filter   blur.Kind
}

// stages lists the filter passes in execution order
var stages = []stage{
	{name: "02_box_blur", position: models.Top, filter: blur.Box},
	{name: "03_gaussian_blur", position: models.Middle, filter: blur.Gaussian},
}

// Processor drives a raster through the band filters and the overlay
type Processor struct {
	params *Params
	logger *log.Logger

	// layout is computed once per raster and shared by filters and markers
	layout models.BandLayout

	metrics []BandMetrics
}

// NewProcessor creates a new processor with the provided parameters.
func NewProcessor(params *Params) *Processor {
	if params == nil {
		params = &Params{}
	}
	logger := params.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{
		params: params,
		logger: logger,
	}
}

// Process runs the complete pipeline over r in place. It cannot fail;
// problems saving intermediary images are logged and skipped.
func (p *Processor) Process(r *models.Raster) {
	start := time.Now()

	p.layout = models.NewBandLayout(r.Height)
	p.metrics = nil
	p.logger.Debug("partitioned raster",
		"width", r.Width, "height", r.Height,
		"firstCut", p.layout.FirstCut, "secondCut", p.layout.SecondCut)

	var original *models.Raster
	if p.params.CollectMetrics {
		original = r.Clone()
	}

	p.saveStage("01_input", r)

	opts := blur.Options{Workers: p.params.Workers}
	for _, s := range stages {
		band := p.layout.Band(s.position)
		p.logger.Debug("applying filter", "filter", s.filter, "band", s.position, "rows", fmt.Sprintf("[%d,%d)", band.Start, band.End))
		s.filter.Apply(r, band, opts)
		p.saveStage(s.name, r)
	}

	p.logger.Debug("drawing markers", "red", p.layout.FirstCut, "blue", p.layout.SecondCut)
	overlay.Draw(r, p.layout)
	p.saveStage("04_markers", r)

	if original != nil {
		p.metrics = CalculateBandMetrics(original, r, p.layout)
	}

	p.logger.Infof("Processed %dx%d raster (%s)", r.Width, r.Height, time.Since(start).Round(time.Millisecond))
}

// Run loads the image at inputPath, processes it and saves the result to
// outputPath. The output format is checked before anything is read or
// written, and ctx is checked between load, process and save. The first
// failure aborts the run and nothing is written. The processed raster is
// returned for further inspection.
func (p *Processor) Run(ctx context.Context, inputPath, outputPath string) (*models.Raster, error) {
	if err := codec.CheckOutputPath(outputPath); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Debug("loading image", "path", inputPath)
	r, err := codec.Load(inputPath)
	if err != nil {
		return nil, err
	}
	p.logger.Infof("Loaded %s (%dx%d)", inputPath, r.Width, r.Height)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.Process(r)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := codec.Save(r, outputPath, p.params.Codec); err != nil {
		return nil, err
	}
	p.logger.Infof("Saved %s", outputPath)
	return r, nil
}

// Layout returns the band layout of the last processed raster
func (p *Processor) Layout() models.BandLayout {
	return p.layout
}

// Metrics returns the band statistics of the last processed raster.
// It is empty unless Params.CollectMetrics is set.
func (p *Processor) Metrics() []BandMetrics {
	return p.metrics
}

// saveStage writes r as a PNG named after the stage when intermediary
// results are enabled
func (p *Processor) saveStage(name string, r *models.Raster) {
	if !p.params.SaveIntermediaryResults {
		return
	}
	if err := os.MkdirAll(p.params.IntermediaryDir, 0755); err != nil {
		p.logger.Warn("cannot create intermediary directory", "dir", p.params.IntermediaryDir, "err", err)
		return
	}
	path := filepath.Join(p.params.IntermediaryDir, name+".png")
	if err := codec.Save(r, path, codec.Options{}); err != nil {
		p.logger.Warn("failed to save intermediary result", "stage", name, "err", err)
		return
	}
	p.logger.Debug("saved intermediary result", "path", path)
}

// Process runs the pipeline over r with default parameters and a silent
// logger.
func Process(r *models.Raster) {
	NewProcessor(&Params{Logger: log.New(io.Discard)}).Process(r)
}
