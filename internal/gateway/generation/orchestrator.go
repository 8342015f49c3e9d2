package generation

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pageforge/gateway/internal/gateway/backends"
	"github.com/pageforge/gateway/internal/shared/models"
)

// BackendSource is the slice of the registry the orchestrator needs
type BackendSource interface {
	List() []models.Backend
	Invoker(id string) (backends.Invoker, bool)
}

// Orchestrator runs the fallback chain: every configured backend in priority
// order, then the deterministic template generator.
type Orchestrator struct {
	source         BackendSource
	attemptTimeout time.Duration
}

// NewOrchestrator creates an orchestrator with a bounded per-attempt budget
func NewOrchestrator(source BackendSource, attemptTimeout time.Duration) *Orchestrator {
	if attemptTimeout <= 0 {
		attemptTimeout = 45 * time.Second
	}
	return &Orchestrator{source: source, attemptTimeout: attemptTimeout}
}

// Resolve produces a validated GenerationResult for req. Backends are tried
// sequentially in priority order, the preferred backend first when one is
// named; the first valid document wins and no further backends are tried.
// Per-backend failures are recovered locally and never surface: once every
// backend is exhausted the template generator answers, so Resolve is total.
func (o *Orchestrator) Resolve(ctx context.Context, req models.GenerationRequest) models.GenerationResult {
	order := backends.ReorderPreferred(o.source.List(), req.PreferredBackendID)

	for _, b := range order {
		attempt, code := o.tryBackend(ctx, b, req.Prompt)
		if attempt.Outcome == models.OutcomeSuccess {
			log.Printf("generation succeeded: backend=%s model=%s bytes=%d", b.ID, attempt.ModelID, len(code))
			return models.GenerationResult{
				Code:      code,
				Method:    b.ID,
				BackendID: b.ID,
			}
		}
	}

	log.Printf("all backends exhausted, falling back to template: prompt_len=%d", len(req.Prompt))
	code := GenerateTemplate(req.Prompt, ulid.Make().String())
	return models.GenerationResult{
		Code:   code,
		Method: models.MethodTemplate,
	}
}

// tryBackend runs one attempt against a single backend. Each backend gets
// exactly one invocation: no retries, next backend on any failure.
func (o *Orchestrator) tryBackend(ctx context.Context, b models.Backend, prompt string) (models.GenerationAttempt, string) {
	attempt := models.GenerationAttempt{BackendID: b.ID}

	invoker, ok := o.source.Invoker(b.ID)
	if !ok || len(b.Models) == 0 {
		attempt.Outcome = models.OutcomeBackendUnavailable
		return attempt, ""
	}
	attempt.ModelID = b.Models[0]

	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	raw, err := invoker.Invoke(attemptCtx, prompt, attempt.ModelID)
	if err != nil {
		if errors.Is(err, backends.ErrUnavailable) {
			attempt.Outcome = models.OutcomeBackendUnavailable
		} else {
			attempt.Outcome = models.OutcomeBackendError
		}
		log.Printf("generation attempt failed: backend=%s model=%s outcome=%s err=%v",
			b.ID, attempt.ModelID, attempt.Outcome, err)
		return attempt, ""
	}

	attempt.RawOutput = raw
	doc := ExtractDocument(Normalize(raw))
	if !IsValid(doc) {
		attempt.Outcome = models.OutcomeInvalidOutput
		log.Printf("generation attempt rejected: backend=%s model=%s bytes=%d",
			b.ID, attempt.ModelID, len(doc))
		return attempt, ""
	}

	attempt.Outcome = models.OutcomeSuccess
	return attempt, doc
}
