// Package differ runs the screenshot comparison pipeline: preprocess both
// images, query the vision model, parse its reply, rescale the reported
// boxes into the comparison image's pixel space and render the highlighted
// output image.
package differ

import (
	"context"

	"go.uber.org/zap"

	"github.com/aniket-charjan/ui-diff-detector/pkg/client"
	"github.com/aniket-charjan/ui-diff-detector/pkg/parser"
	"github.com/aniket-charjan/ui-diff-detector/pkg/processing"
	"github.com/aniket-charjan/ui-diff-detector/pkg/render"
	"github.com/aniket-charjan/ui-diff-detector/pkg/rescale"
	"github.com/aniket-charjan/ui-diff-detector/pkg/types"
)

// Differ orchestrates one comparison run. It holds no per-request state and
// is safe for concurrent use; each Compare call is an independent
// straight-line chain that fails fast on the first error.
type Differ struct {
	processor *processing.Processor
	client    client.VisionClient
	model     string
	outputDir string
	opts      render.Options
	log       *zap.SugaredLogger
}

// Config wires a Differ.
type Config struct {
	Client    client.VisionClient
	Model     string
	OutputDir string
	// MaxDimension caps the longest image side sent to the model.
	// Zero selects processing.DefaultMaxDimension.
	MaxDimension int
	Render       render.Options
	Logger       *zap.SugaredLogger
}

// New creates a Differ from the given configuration.
func New(cfg Config) *Differ {
	maxDim := cfg.MaxDimension
	if maxDim == 0 {
		maxDim = processing.DefaultMaxDimension
	}
	opts := cfg.Render
	if opts.StrokeWidth == 0 && opts.Stroke.A == 0 {
		opts = render.DefaultOptions()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Differ{
		processor: processing.NewProcessorWithMaxDim(maxDim),
		client:    cfg.Client,
		model:     cfg.Model,
		outputDir: cfg.OutputDir,
		opts:      opts,
		log:       log,
	}
}

// Compare runs the full pipeline over two screenshot files and returns the
// structured result. The comparison image is the render target: reported
// boxes are rescaled from the model-processed comparison space into the
// original comparison image's space before drawing.
func (d *Differ) Compare(ctx context.Context, baselinePath, comparisonPath string) (*types.ComparisonResult, error) {
	baseline, err := d.processor.PrepareFile(baselinePath)
	if err != nil {
		return nil, err
	}
	comparisonImg, err := d.processor.LoadImage(comparisonPath)
	if err != nil {
		return nil, err
	}
	comparison := d.processor.Prepare(comparisonImg)

	d.log.Debugw("images prepared",
		"baseline", baselinePath, "baseline_size", [2]int{baseline.Width, baseline.Height},
		"comparison", comparisonPath, "comparison_size", [2]int{comparison.Width, comparison.Height})

	baselineB64, err := d.processor.EncodeBase64PNG(baseline.Image)
	if err != nil {
		return nil, err
	}
	comparisonB64, err := d.processor.EncodeBase64PNG(comparison.Image)
	if err != nil {
		return nil, err
	}

	raw, err := d.client.CompareImages(ctx, d.model, ComparisonPrompt, baselineB64, comparisonB64)
	if err != nil {
		return nil, err
	}

	report, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	d.log.Infow("model report parsed",
		"differences", len(report.Differences), "ui_elements", len(report.UIElements))

	targetBounds := comparisonImg.Bounds()
	target := types.Dimensions{Width: targetBounds.Dx(), Height: targetBounds.Dy()}
	boxes := rescale.RescaleAll(report.Differences, report.ProcessedDims.Comparison, target)

	diffPath, err := render.HighlightToFile(comparisonImg, boxes, d.outputDir, d.opts)
	if err != nil {
		return nil, err
	}
	d.log.Infow("diff image rendered", "path", diffPath, "boxes", len(boxes))

	return &types.ComparisonResult{
		Differences:   report.Differences,
		UIElements:    report.UIElements,
		ProcessedDims: report.ProcessedDims,
		RawResponse:   raw,
		DiffImagePath: diffPath,
	}, nil
}
