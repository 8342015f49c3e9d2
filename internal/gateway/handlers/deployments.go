package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pageforge/gateway/internal/gateway/deployments"
	"github.com/pageforge/gateway/internal/shared/models"
)

// BackendLister exposes the backend catalog for the discovery endpoint
type BackendLister interface {
	List() []models.Backend
}

// DeploymentHandler serves the deployment read path
type DeploymentHandler struct {
	store    *deployments.Store
	backends BackendLister
}

func NewDeploymentHandler(store *deployments.Store, backends BackendLister) *DeploymentHandler {
	return &DeploymentHandler{store: store, backends: backends}
}

// HandleGet returns the deployment summary, code stripped
func (h *DeploymentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.store.GetSummary(r.Context(), id)
	if err != nil {
		log.Printf("failed to read deployment %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to read deployment")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "deployment not found")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HandlePreview serves the stored document as a page
func (h *DeploymentHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.store.Get(r.Context(), id)
	if err != nil {
		log.Printf("failed to read deployment %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to read deployment")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "deployment not found")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(record.Code)); err != nil {
		log.Printf("failed to write preview %s: %v", id, err)
	}
}

// HandleList returns the most recent deployment summaries
func (h *DeploymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	result, err := h.store.List(r.Context(), limit)
	if err != nil {
		log.Printf("failed to list deployments: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list deployments")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleBackends returns the backend catalog in priority order
func (h *DeploymentHandler) HandleBackends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"backends": h.backends.List(),
	})
}
