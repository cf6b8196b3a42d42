package types

// BoundingBox is an axis-aligned rectangle with top-left (X1,Y1) and
// bottom-right (X2,Y2) corners, in the pixel space of whichever image the
// surrounding context refers to. The model is asked for X2 >= X1 and
// Y2 >= Y1 but nothing enforces it; consumers must tolerate inverted boxes.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

// Difference is a single discrepancy reported by the vision model.
// Type is an open set of category tags (text_change, layout_change, ...).
// Before/After are present only for text changes. Coordinates is the tight
// box around the change; HighlightArea is an expanded box used for rendering.
// Both are expressed in the processed (model input) image's pixel space.
type Difference struct {
	Type          string       `json:"type"`
	Location      string       `json:"location"`
	Description   string       `json:"description"`
	Before        string       `json:"before,omitempty"`
	After         string       `json:"after,omitempty"`
	Coordinates   *BoundingBox `json:"coordinates,omitempty"`
	HighlightArea *BoundingBox `json:"highlight_area,omitempty"`
}

// Box returns the box to render for this difference: the highlight area when
// present, otherwise the tight coordinates. Nil when the model gave neither.
func (d Difference) Box() *BoundingBox {
	if d.HighlightArea != nil {
		return d.HighlightArea
	}
	return d.Coordinates
}

// Dimensions is a pixel width/height pair.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProcessedDimensions records the pixel size of each input image as actually
// consumed by the vision model. It exists only to compute rescaling factors
// and is never persisted beyond a single comparison.
type ProcessedDimensions struct {
	Baseline   Dimensions `json:"image1"`
	Comparison Dimensions `json:"image2"`
}

// UIElement is one interface element the model identified on a screenshot.
type UIElement struct {
	Screenshot  string       `json:"screenshot"`
	ElementType string       `json:"element_type"`
	Description string       `json:"description"`
	Coordinates *BoundingBox `json:"coordinates,omitempty"`
}

// ComparisonResult aggregates everything produced by one comparison run.
// It is created once per request and never mutated afterwards.
type ComparisonResult struct {
	Differences   []Difference        `json:"differences"`
	UIElements    []UIElement         `json:"ui_elements,omitempty"`
	ProcessedDims ProcessedDimensions `json:"processed_dimensions"`
	RawResponse   string              `json:"raw_response"`
	DiffImagePath string              `json:"diff_image_path"`
}
