package models

import "time"

// CostClass describes how a backend bills generation traffic
type CostClass string

const (
	CostFree    CostClass = "free"
	CostMetered CostClass = "metered"
)

// Backend is an immutable catalog entry for a generation backend.
// Entries are built once at process start and never mutated.
type Backend struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"display_name"`
	Models             []string  `json:"models"`
	Priority           int       `json:"priority"`
	RequiresCredential bool      `json:"requires_credential"`
	CostClass          CostClass `json:"cost_class"`
}

// GenerationRequest represents one inbound generation call
type GenerationRequest struct {
	Prompt             string `json:"prompt"`
	PreferredBackendID string `json:"preferred_backend_id,omitempty"`
}

// AttemptOutcome classifies how a single backend try ended
type AttemptOutcome string

const (
	OutcomeSuccess            AttemptOutcome = "success"
	OutcomeBackendUnavailable AttemptOutcome = "backend_unavailable"
	OutcomeBackendError       AttemptOutcome = "backend_error"
	OutcomeInvalidOutput      AttemptOutcome = "invalid_output"
)

// GenerationAttempt is the transient record of one backend try. It exists
// for diagnostics during a single orchestration call and is never persisted.
type GenerationAttempt struct {
	BackendID string
	ModelID   string
	Outcome   AttemptOutcome
	RawOutput string
}

// MethodTemplate is the sentinel method name reported when the deterministic
// template generator produced the document.
const MethodTemplate = "template"

// GenerationResult is the outcome of a full orchestration pass. Code always
// satisfies the validator predicate regardless of Method.
type GenerationResult struct {
	Code      string `json:"code"`
	Method    string `json:"method"`
	BackendID string `json:"backend_id,omitempty"`
}

// StatusCompleted is the only terminal deployment state. Generation is
// synchronous, so no pending or partial states are modeled.
const StatusCompleted = "completed"

// DeploymentRecord is the persisted artifact of one generation request
type DeploymentRecord struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Code      string    `json:"code,omitempty"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns a copy of the record with the code stripped, used by the
// metadata endpoints to bound response size.
func (r DeploymentRecord) Summary() DeploymentRecord {
	r.Code = ""
	return r
}
