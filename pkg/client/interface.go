package client

import (
	"context"
	"fmt"
)

// VisionClient sends a two-image comparison query to a vision model backend
// and returns the raw text of its reply. The reply is expected to carry the
// fenced JSON payloads consumed by pkg/parser, but clients pass it through
// untouched: the parsing contract lives with the caller.
type VisionClient interface {
	CompareImages(ctx context.Context, model, prompt, baselineB64, comparisonB64 string) (string, error)
}

// UpstreamError reports that the model call itself failed or that the model
// returned an unusable (empty) reply.
type UpstreamError struct {
	Backend string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("vision backend %s: %v", e.Backend, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
