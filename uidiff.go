// Package uidiff detects visual differences between two UI screenshots by
// delegating the semantic comparison to a vision language model.
//
// A baseline and a comparison screenshot are downsampled to the model's
// input limits, sent to the configured backend (Ollama or any
// OpenAI-compatible endpoint), and the model's semi-structured text reply is
// parsed into a difference list. The reported bounding boxes are rescaled
// from the model's coordinate space back into the comparison image's space
// and rendered as highlight rectangles on a copy of that image.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		uidiff "github.com/aniket-charjan/ui-diff-detector"
//		"github.com/aniket-charjan/ui-diff-detector/pkg/ollama"
//	)
//
//	func main() {
//		backend, err := ollama.NewClient("http://localhost:11434")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		d := uidiff.New(uidiff.Config{
//			Client:    backend,
//			Model:     "llama3.2-vision",
//			OutputDir: "outputs",
//		})
//
//		result, err := d.Compare(context.Background(), "before.png", "after.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("%d differences, highlighted image at %s\n",
//			len(result.Differences), result.DiffImagePath)
//	}
//
// The pipeline is stateless and request-scoped: concurrent comparisons are
// independent and constrained only by the model backend itself.
package uidiff

import (
	"github.com/aniket-charjan/ui-diff-detector/pkg/differ"
)

// Config is re-exported so callers can wire a Differ without importing the
// pipeline package directly.
type Config = differ.Config

// New creates a screenshot comparison pipeline.
func New(cfg Config) *differ.Differ {
	return differ.New(cfg)
}
