package processing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultMaxDimension is the longest image side sent to the vision model.
// Larger screenshots are downsampled before transport.
const DefaultMaxDimension = 1568

// PreprocessError reports a failure to read, decode or resize a source image.
type PreprocessError struct {
	Path string
	Err  error
}

func (e *PreprocessError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("preprocess %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("preprocess: %v", e.Err)
}

func (e *PreprocessError) Unwrap() error { return e.Err }

// Processed is the outcome of preparing one image for the model: the image
// that will actually be sent plus the factors mapping processed coordinates
// back to the original (original = processed * Scale).
type Processed struct {
	Image  image.Image
	Width  int
	Height int
	// ScaleX and ScaleY are original/processed along each axis. Both are
	// 1.0 when no resize happened.
	ScaleX float64
	ScaleY float64
}

// Processor prepares screenshots for the vision model.
type Processor struct {
	maxDim int
}

// NewProcessor creates a Processor with the default maximum dimension.
func NewProcessor() *Processor {
	return &Processor{maxDim: DefaultMaxDimension}
}

// NewProcessorWithMaxDim creates a Processor with a custom maximum dimension.
// A maxDim of 0 disables resizing entirely.
func NewProcessorWithMaxDim(maxDim int) *Processor {
	return &Processor{maxDim: maxDim}
}

// LoadImage loads an image from a file path with WebP support.
func (p *Processor) LoadImage(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &PreprocessError{Path: path, Err: err}
	}
	defer f.Close()

	if strings.Contains(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err == nil {
			if img, _, err := image.Decode(f); err == nil {
				return img, nil
			}
		}
	} else {
		if _, err := f.Seek(0, 0); err == nil {
			if img, _, err := image.Decode(f); err == nil {
				return img, nil
			}
		}
	}
	return nil, &PreprocessError{Path: path, Err: fmt.Errorf("unknown image format")}
}

// DecodeBytes decodes an image from raw byte data with WebP support.
func (p *Processor) DecodeBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, &PreprocessError{Err: fmt.Errorf("unknown or unsupported image format")}
}

// Prepare downsamples img so its longer side does not exceed the configured
// maximum, preserving aspect ratio. Images already within the threshold pass
// through untouched with scale factors of exactly 1.0. The shorter side of a
// resized image is round(shorter * maxDim / longer).
func (p *Processor) Prepare(img image.Image) Processed {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if p.maxDim <= 0 || (w <= p.maxDim && h <= p.maxDim) {
		return Processed{Image: img, Width: w, Height: h, ScaleX: 1.0, ScaleY: 1.0}
	}

	var nw, nh int
	if w >= h {
		nw = p.maxDim
		nh = int(math.Round(float64(h) * float64(p.maxDim) / float64(w)))
	} else {
		nh = p.maxDim
		nw = int(math.Round(float64(w) * float64(p.maxDim) / float64(h)))
	}

	resized := imaging.Resize(img, nw, nh, imaging.Lanczos)
	rb := resized.Bounds()
	return Processed{
		Image:  resized,
		Width:  rb.Dx(),
		Height: rb.Dy(),
		ScaleX: float64(w) / float64(rb.Dx()),
		ScaleY: float64(h) / float64(rb.Dy()),
	}
}

// PrepareFile loads and prepares an image in one step.
func (p *Processor) PrepareFile(path string) (Processed, error) {
	img, err := p.LoadImage(path)
	if err != nil {
		return Processed{}, err
	}
	return p.Prepare(img), nil
}

// EncodeBase64PNG serializes an image as PNG and base64-encodes it for the
// model transport.
func (p *Processor) EncodeBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return "", &PreprocessError{Err: err}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
