package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pageforge/gateway/internal/gateway/deployments"
	"github.com/pageforge/gateway/internal/shared/models"
)

// Resolver turns a generation request into a validated document
type Resolver interface {
	Resolve(ctx context.Context, req models.GenerationRequest) models.GenerationResult
}

// GenerateHandler serves the generation endpoint
type GenerateHandler struct {
	resolver Resolver
	store    *deployments.Store
}

func NewGenerateHandler(resolver Resolver, store *deployments.Store) *GenerateHandler {
	return &GenerateHandler{resolver: resolver, store: store}
}

type generateResponse struct {
	DeploymentID string `json:"deployment_id"`
	Status       string `json:"status"`
	Method       string `json:"method"`
	PreviewPath  string `json:"preview_path"`
}

// HandleGenerate runs the fallback pipeline for a prompt and persists the
// outcome. Generation itself cannot fail; the only error responses are
// malformed input and a persistence failure.
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	result := h.resolver.Resolve(r.Context(), req)

	record, err := h.store.Create(r.Context(), req.Prompt, result)
	if err != nil {
		log.Printf("failed to persist deployment: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to persist deployment")
		return
	}

	writeJSON(w, http.StatusCreated, generateResponse{
		DeploymentID: record.ID,
		Status:       record.Status,
		Method:       record.Method,
		PreviewPath:  "/v1/deployments/" + record.ID + "/preview",
	})
}
