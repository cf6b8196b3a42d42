package differ

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/aniket-charjan/ui-diff-detector/pkg/parser"
)

// fakeClient returns a canned model response without any network traffic.
type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) CompareImages(ctx context.Context, model, prompt, baselineB64, comparisonB64 string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	path := filepath.Join(dir, name)
	if err := imaging.Save(imaging.Clone(img), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func dimsAndDiffs(dims, diffs string) string {
	return "Here is my analysis.\n\n```json\n" + dims + "\n```\n\n```json\n" + diffs + "\n```\n"
}

func TestCompareNoDifferencesYieldsPlainCopy(t *testing.T) {
	dir := t.TempDir()
	baseline := writeTestImage(t, dir, "baseline.png", 800, 600)
	comparison := writeTestImage(t, dir, "comparison.png", 800, 600)

	fake := &fakeClient{response: dimsAndDiffs(
		`{"processed_dimensions": {"image1": {"width": 800, "height": 600}, "image2": {"width": 800, "height": 600}}}`,
		`{"differences": []}`,
	)}

	d := New(Config{Client: fake, Model: "test-model", OutputDir: filepath.Join(dir, "out")})

	result, err := d.Compare(context.Background(), baseline, comparison)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(result.Differences) != 0 {
		t.Errorf("Expected 0 differences, got %d", len(result.Differences))
	}
	if result.Differences == nil {
		t.Error("Expected a non-nil empty difference list")
	}
	if fake.calls != 1 {
		t.Errorf("Expected exactly one model call, got %d", fake.calls)
	}

	// The rendered output must be a pixel-faithful copy of the comparison.
	out, err := imaging.Open(result.DiffImagePath)
	if err != nil {
		t.Fatalf("Failed to open diff image: %v", err)
	}
	src, err := imaging.Open(comparison)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(imaging.Clone(out).Pix, imaging.Clone(src).Pix) {
		t.Error("With no differences, the diff image must be a plain copy of the comparison image")
	}
}

func TestCompareRescalesAndRendersOneDifference(t *testing.T) {
	dir := t.TempDir()
	baseline := writeTestImage(t, dir, "baseline.png", 800, 600)
	comparison := writeTestImage(t, dir, "comparison.png", 800, 600)

	fake := &fakeClient{response: dimsAndDiffs(
		`{"processed_dimensions": {"image1": {"width": 1568, "height": 1176}, "image2": {"width": 1568, "height": 1176}}}`,
		`{"differences": [{"type": "layout_change", "location": "header", "description": "moved",
			"highlight_area": {"x1": 100, "y1": 100, "x2": 200, "y2": 150}}]}`,
	)}

	d := New(Config{Client: fake, Model: "test-model", OutputDir: filepath.Join(dir, "out")})

	result, err := d.Compare(context.Background(), baseline, comparison)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(result.Differences) != 1 {
		t.Fatalf("Expected 1 difference, got %d", len(result.Differences))
	}
	if result.RawResponse != fake.response {
		t.Error("RawResponse must carry the untouched model reply")
	}

	out, err := imaging.Open(result.DiffImagePath)
	if err != nil {
		t.Fatalf("Failed to open diff image: %v", err)
	}
	nrgba := imaging.Clone(out)

	white := color.NRGBA{255, 255, 255, 255}
	// The box rescales to roughly (51,51)-(102,77): inside is drawn on.
	if nrgba.NRGBAAt(70, 60) == white {
		t.Error("Expected highlight inside the rescaled box")
	}
	// Far away from the box: untouched.
	for _, pt := range []image.Point{{10, 10}, {200, 200}, {700, 500}} {
		if nrgba.NRGBAAt(pt.X, pt.Y) != white {
			t.Errorf("Pixel (%d,%d) outside the rescaled box changed", pt.X, pt.Y)
		}
	}
}

func TestCompareUpstreamFailure(t *testing.T) {
	dir := t.TempDir()
	baseline := writeTestImage(t, dir, "baseline.png", 100, 100)
	comparison := writeTestImage(t, dir, "comparison.png", 100, 100)

	wantErr := errors.New("backend unreachable")
	fake := &fakeClient{err: wantErr}
	d := New(Config{Client: fake, Model: "test-model", OutputDir: dir})

	_, err := d.Compare(context.Background(), baseline, comparison)
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected the upstream error to propagate, got %v", err)
	}
}

func TestCompareParseFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	baseline := writeTestImage(t, dir, "baseline.png", 100, 100)
	comparison := writeTestImage(t, dir, "comparison.png", 100, 100)

	fake := &fakeClient{response: "the screenshots look the same to me"}
	d := New(Config{Client: fake, Model: "test-model", OutputDir: dir})

	_, err := d.Compare(context.Background(), baseline, comparison)
	if !errors.Is(err, parser.ErrNoJSON) {
		t.Errorf("Expected ErrNoJSON to propagate, got %v", err)
	}
}

func TestCompareMissingBaselineFile(t *testing.T) {
	dir := t.TempDir()
	comparison := writeTestImage(t, dir, "comparison.png", 100, 100)

	fake := &fakeClient{}
	d := New(Config{Client: fake, Model: "test-model", OutputDir: dir})

	_, err := d.Compare(context.Background(), filepath.Join(dir, "missing.png"), comparison)
	if err == nil {
		t.Fatal("Expected an error for a missing baseline")
	}
	if fake.calls != 0 {
		t.Error("The model must not be called when preprocessing fails")
	}
}
