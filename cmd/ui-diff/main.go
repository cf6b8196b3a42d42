package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aniket-charjan/ui-diff-detector/pkg/client"
	"github.com/aniket-charjan/ui-diff-detector/pkg/differ"
	"github.com/aniket-charjan/ui-diff-detector/pkg/ollama"
	"github.com/aniket-charjan/ui-diff-detector/pkg/openrouter"
	"github.com/aniket-charjan/ui-diff-detector/pkg/processing"
)

func main() {
	var baseline, comparison, outDir, model, backend, url, apiKey string
	var maxDim int

	flag.StringVar(&baseline, "baseline", "", "baseline screenshot path")
	flag.StringVar(&comparison, "comparison", "", "comparison screenshot path")
	flag.StringVar(&outDir, "out", "outputs", "output directory for the highlighted image")
	flag.StringVar(&model, "model", "llama3.2-vision", "vision model name")
	flag.StringVar(&backend, "backend", "ollama", "backend to use: ollama or openrouter")
	flag.StringVar(&url, "url", "", "backend URL (defaults: ollama=http://localhost:11434, openrouter=https://openrouter.ai/api/v1)")
	flag.StringVar(&apiKey, "apikey", os.Getenv("OPENROUTER_API_KEY"), "API key for the openrouter backend")
	flag.IntVar(&maxDim, "maxdim", processing.DefaultMaxDimension, "max long side sent to the model (px), 0=original")

	flag.Parse()
	if baseline == "" || comparison == "" {
		log.Fatalf("usage: %s -baseline before.png -comparison after.png [-backend ollama|openrouter] [-model name] [-out outdir]",
			filepath.Base(os.Args[0]))
	}

	var visionClient client.VisionClient
	var err error

	switch backend {
	case "ollama":
		if url == "" {
			url = "http://localhost:11434"
		}
		visionClient, err = ollama.NewClient(url)
		if err != nil {
			log.Fatalf("failed to create ollama client: %v", err)
		}
	case "openrouter":
		cfg := openrouter.DefaultConfig(apiKey, model)
		if url != "" {
			cfg.BaseURL = url
		}
		visionClient = openrouter.NewClient(cfg)
	default:
		log.Fatalf("unknown backend: %s (use 'ollama' or 'openrouter')", backend)
	}

	d := differ.New(differ.Config{
		Client:       visionClient,
		Model:        model,
		OutputDir:    outDir,
		MaxDimension: maxDim,
	})

	result, err := d.Compare(context.Background(), baseline, comparison)
	if err != nil {
		log.Fatalf("comparison failed: %v", err)
	}

	report, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode report: %v", err)
	}
	fmt.Println(string(report))
	fmt.Fprintf(os.Stderr, "highlighted image: %s\n", result.DiffImagePath)
}
