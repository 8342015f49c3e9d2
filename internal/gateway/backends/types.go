package backends

import (
	"context"
	"errors"
)

// Invoker is the single contract every generation backend implements:
// send a prompt, receive raw text. The orchestrator treats all backends
// identically through it regardless of vendor.
type Invoker interface {
	Invoke(ctx context.Context, prompt, model string) (string, error)
}

var (
	// ErrUnavailable means the backend cannot be called at all, typically
	// because its credential is not configured.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrRequestFailed means the backend was called and the call failed:
	// transport error, timeout, or a non-success response.
	ErrRequestFailed = errors.New("backend request failed")
)

// documentPrompt steers every backend toward a single self-contained page.
const documentPrompt = "You are a web developer. Respond with one complete HTML document " +
	"(<!DOCTYPE html> through </html>) implementing the user's request. " +
	"Inline all CSS and JavaScript. Respond with the document only, no commentary."
