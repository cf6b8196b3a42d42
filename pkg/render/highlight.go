// Package render draws difference highlights onto screenshot images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/aniket-charjan/ui-diff-detector/pkg/types"
)

// RenderError reports a failure to decode the target image or to create or
// write the output file.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("render %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("render: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Options controls how highlight rectangles are drawn.
type Options struct {
	Stroke      color.NRGBA
	StrokeWidth int
	FillAlpha   uint8
}

// DefaultOptions returns the red outline and light translucent fill used for
// generated diff images.
func DefaultOptions() Options {
	return Options{
		Stroke:      color.NRGBA{255, 0, 0, 255},
		StrokeWidth: 3,
		FillAlpha:   48,
	}
}

// Highlight composites the given boxes onto a copy of img, in sequence order:
// later boxes draw over earlier ones where they overlap. An empty box list
// yields an untouched copy. Boxes partially or fully outside the canvas are
// clipped at draw time and never cause a failure; inverted boxes are
// normalized before drawing.
func Highlight(img image.Image, boxes []types.BoundingBox, opts Options) *image.NRGBA {
	out := imaging.Clone(img)
	fill := color.NRGBA{opts.Stroke.R, opts.Stroke.G, opts.Stroke.B, opts.FillAlpha}

	for _, box := range boxes {
		x0, y0, x1, y1 := boxToPixels(box)
		fillRect(out, x0, y0, x1, y1, fill)
		drawRect(out, x0, y0, x1, y1, opts.Stroke, opts.StrokeWidth)
	}

	return out
}

// HighlightToFile renders the boxes onto img and writes the result as a PNG
// under outputDir. The filename is derived from the current timestamp with
// millisecond precision, so it never collides under normal clock behavior.
// Returns the path of the created file.
func HighlightToFile(img image.Image, boxes []types.BoundingBox, outputDir string, opts Options) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", &RenderError{Path: outputDir, Err: err}
	}

	out := Highlight(img, boxes, opts)
	name := fmt.Sprintf("diff_%s.png", time.Now().Format("20060102_150405.000"))
	path := filepath.Join(outputDir, name)

	if err := imaging.Save(out, path); err != nil {
		return "", &RenderError{Path: path, Err: err}
	}
	return path, nil
}

// boxToPixels rounds a box to pixel coordinates, swapping corners when the
// model returned an inverted rectangle.
func boxToPixels(b types.BoundingBox) (int, int, int, int) {
	x0 := int(math.Round(math.Min(b.X1, b.X2)))
	y0 := int(math.Round(math.Min(b.Y1, b.Y2)))
	x1 := int(math.Round(math.Max(b.X1, b.X2)))
	y1 := int(math.Round(math.Max(b.Y1, b.Y2)))
	return x0, y0, x1, y1
}

// fillRect blends a translucent color over the rectangle, clipped to the
// image bounds.
func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	for y := y0; y < y1; y++ {
		i := y*img.Stride + x0*4
		for x := x0; x < x1; x++ {
			blendPixel(img.Pix[i:i+4], c)
			i += 4
		}
	}
}

// blendPixel applies src-over compositing of c onto one NRGBA pixel.
func blendPixel(px []byte, c color.NRGBA) {
	a := uint32(c.A)
	ia := 255 - a
	px[0] = uint8((uint32(c.R)*a + uint32(px[0])*ia) / 255)
	px[1] = uint8((uint32(c.G)*a + uint32(px[1])*ia) / 255)
	px[2] = uint8((uint32(c.B)*a + uint32(px[2])*ia) / 255)
}

// drawRect draws an opaque outlined rectangle with the given stroke width.
func drawRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA, stroke int) {
	if stroke < 1 {
		stroke = 1
	}
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
