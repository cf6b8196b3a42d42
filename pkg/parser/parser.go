// Package parser extracts the structured comparison report embedded in the
// free-form text returned by the vision model.
//
// The model is prompted to answer with fenced JSON code blocks: one holding
// the pixel dimensions of the images as it consumed them, one holding the
// difference list, and optionally one holding detected UI elements. Models
// routinely wrap those blocks in prose, so the parser scans for fenced blocks
// first and falls back to the first brace-delimited substring when the model
// ignored the fencing instruction.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aniket-charjan/ui-diff-detector/pkg/types"
)

// Sentinel errors distinguishing the parse failure modes. Callers branch on
// these via errors.Is: a missing payload can be retried with a fresh model
// call, malformed JSON usually cannot.
var (
	ErrNoJSON        = errors.New("no JSON payload found in model response")
	ErrMalformedJSON = errors.New("malformed JSON payload in model response")
	ErrMissingKey    = errors.New("required key missing from model response")
)

// ParseError wraps one of the sentinel errors with context about what was
// being extracted when parsing failed.
type ParseError struct {
	Kind   error
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response: %v: %s", e.Kind, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Top-level keys of the expected payloads.
const (
	keyDimensions  = "processed_dimensions"
	keyDifferences = "differences"
	keyUIElements  = "ui_elements"
)

// ModelReport is the structured content recovered from one model response.
type ModelReport struct {
	ProcessedDims types.ProcessedDimensions
	Differences   []types.Difference
	UIElements    []types.UIElement
}

var fenceRe = regexp.MustCompile("(?s)```(?:[a-zA-Z]*)?\\s*(.*?)```")

// Parse extracts the comparison report from raw model output. It is a pure
// function: parsing the same text twice yields equal reports.
//
// An empty difference list is a valid outcome and is returned as a non-nil
// empty slice. A response carrying only one of the two required payloads
// fails with ErrMissingKey, because rescaling with guessed dimensions would
// silently corrupt every coordinate.
func Parse(raw string) (*ModelReport, error) {
	blocks := fencedBlocks(raw)

	dimsBlock := firstBlockWithKey(blocks, keyDimensions)
	diffBlock := firstBlockWithKey(blocks, keyDifferences)
	elemBlock := firstBlockWithKey(blocks, keyUIElements)

	// No fenced payloads at all: fall back to the first brace-delimited
	// substring and try to read everything out of it.
	if dimsBlock == "" && diffBlock == "" {
		candidate, ok := braceSubstring(raw)
		if !ok {
			return nil, &ParseError{Kind: ErrNoJSON, Detail: "no fenced block and no brace-delimited JSON"}
		}
		dimsBlock, diffBlock = candidate, candidate
		if elemBlock == "" {
			elemBlock = candidate
		}
	}

	report := &ModelReport{Differences: []types.Difference{}}

	haveDims, err := extractDimensions(dimsBlock, report)
	if err != nil {
		return nil, err
	}
	haveDiffs, err := extractDifferences(diffBlock, report)
	if err != nil {
		return nil, err
	}

	if !haveDims && !haveDiffs {
		return nil, &ParseError{Kind: ErrMissingKey, Detail: "neither processed_dimensions nor differences present"}
	}
	if !haveDims {
		return nil, &ParseError{Kind: ErrMissingKey, Detail: "processed_dimensions payload not found"}
	}
	if !haveDiffs {
		return nil, &ParseError{Kind: ErrMissingKey, Detail: "differences payload not found"}
	}

	// UI elements are auxiliary; their absence is not an error.
	if elemBlock != "" {
		if err := extractUIElements(elemBlock, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// fencedBlocks returns the contents of all triple-backtick blocks in order.
func fencedBlocks(raw string) []string {
	matches := fenceRe.FindAllStringSubmatch(raw, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		body := strings.TrimSpace(m[1])
		if body != "" {
			blocks = append(blocks, body)
		}
	}
	return blocks
}

// firstBlockWithKey returns the first block whose content is an object
// beginning with the given top-level key. Subsequent matches are ignored.
func firstBlockWithKey(blocks []string, key string) string {
	re := regexp.MustCompile(`^\{\s*"` + key + `"`)
	for _, b := range blocks {
		if re.MatchString(b) {
			return b
		}
	}
	return ""
}

// braceSubstring returns the substring from the first '{' to the last '}'.
func braceSubstring(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// decodeObject unmarshals a candidate payload into a key set, reporting
// malformed JSON as such so callers can tell it apart from absence.
func decodeObject(block string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(block), &obj); err != nil {
		return nil, &ParseError{Kind: ErrMalformedJSON, Detail: err.Error()}
	}
	return obj, nil
}

func extractDimensions(block string, report *ModelReport) (bool, error) {
	if block == "" {
		return false, nil
	}
	obj, err := decodeObject(block)
	if err != nil {
		return false, err
	}
	rawDims, ok := obj[keyDimensions]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(rawDims, &report.ProcessedDims); err != nil {
		return false, &ParseError{Kind: ErrMalformedJSON, Detail: "processed_dimensions: " + err.Error()}
	}
	return true, nil
}

func extractDifferences(block string, report *ModelReport) (bool, error) {
	if block == "" {
		return false, nil
	}
	obj, err := decodeObject(block)
	if err != nil {
		return false, err
	}
	rawDiffs, ok := obj[keyDifferences]
	if !ok {
		return false, nil
	}
	var diffs []types.Difference
	if err := json.Unmarshal(rawDiffs, &diffs); err != nil {
		return false, &ParseError{Kind: ErrMalformedJSON, Detail: "differences: " + err.Error()}
	}
	// "no differences" is a meaningful result, never nil.
	if diffs == nil {
		diffs = []types.Difference{}
	}
	report.Differences = diffs
	return true, nil
}

func extractUIElements(block string, report *ModelReport) error {
	obj, err := decodeObject(block)
	if err != nil {
		return err
	}
	rawElems, ok := obj[keyUIElements]
	if !ok {
		return nil
	}
	var elems []types.UIElement
	if err := json.Unmarshal(rawElems, &elems); err != nil {
		return &ParseError{Kind: ErrMalformedJSON, Detail: "ui_elements: " + err.Error()}
	}
	report.UIElements = elems
	return nil
}
