// Package rescale maps bounding boxes from the model-processed image's
// coordinate space into the coordinate space of the image being annotated.
package rescale

import (
	"github.com/aniket-charjan/ui-diff-detector/pkg/types"
)

// Rescale maps box from the processed image's pixel space into the target
// image's pixel space via independent per-axis linear scaling. The axes are
// scaled independently because the two spaces may legitimately have different
// aspect ratios. No rotation, skew or clipping is performed; coordinates may
// fall outside the target canvas.
func Rescale(box types.BoundingBox, processed, target types.Dimensions) types.BoundingBox {
	sx := factor(target.Width, processed.Width)
	sy := factor(target.Height, processed.Height)
	return types.BoundingBox{
		X1: box.X1 * sx,
		Y1: box.Y1 * sy,
		X2: box.X2 * sx,
		Y2: box.Y2 * sy,
	}
}

// RescaleAll maps the render box of each difference into the target space.
// Differences carrying no box at all are skipped. The output order follows
// the input order.
func RescaleAll(diffs []types.Difference, processed, target types.Dimensions) []types.BoundingBox {
	boxes := make([]types.BoundingBox, 0, len(diffs))
	for _, d := range diffs {
		b := d.Box()
		if b == nil {
			continue
		}
		boxes = append(boxes, Rescale(*b, processed, target))
	}
	return boxes
}

// factor returns target/processed, degrading to identity when the processed
// dimension is unusable rather than dividing by zero.
func factor(target, processed int) float64 {
	if processed <= 0 {
		return 1.0
	}
	return float64(target) / float64(processed)
}
