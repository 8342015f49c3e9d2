package backends

import (
	"sort"

	"github.com/pageforge/gateway/internal/shared/config"
	"github.com/pageforge/gateway/internal/shared/models"
)

// Registry is the static catalog of generation backends, each bound to its
// invoker. It is built once at startup and never mutated.
type Registry struct {
	entries  []models.Backend
	invokers map[string]Invoker
}

// NewRegistry builds the catalog from configuration. Backends with missing
// credentials stay in the catalog; their invokers report ErrUnavailable so
// the orchestrator skips past them.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{invokers: make(map[string]Invoker)}

	r.add(models.Backend{
		ID:                 "openai",
		DisplayName:        "OpenAI",
		Models:             []string{"gpt-4o", "gpt-4o-mini"},
		Priority:           1,
		RequiresCredential: true,
		CostClass:          models.CostMetered,
	}, NewOpenAIBackend(cfg.OpenAIAPIKey))

	r.add(models.Backend{
		ID:                 "anthropic",
		DisplayName:        "Anthropic",
		Models:             []string{"claude-sonnet-4-5", "claude-haiku-4-5"},
		Priority:           2,
		RequiresCredential: true,
		CostClass:          models.CostMetered,
	}, NewAnthropicBackend(cfg.AnthropicAPIKey))

	r.add(models.Backend{
		ID:                 "google",
		DisplayName:        "Google Gemini",
		Models:             []string{"gemini-2.5-flash", "gemini-2.5-pro"},
		Priority:           3,
		RequiresCredential: true,
		CostClass:          models.CostMetered,
	}, NewGeminiBackend(cfg.GeminiAPIKey))

	r.add(models.Backend{
		ID:                 "ollama",
		DisplayName:        "Ollama (local)",
		Models:             []string{"llama3"},
		Priority:           4,
		RequiresCredential: false,
		CostClass:          models.CostFree,
	}, NewOllamaBackend(cfg.OllamaURL))

	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].Priority < r.entries[j].Priority
	})

	return r
}

func (r *Registry) add(b models.Backend, invoker Invoker) {
	r.entries = append(r.entries, b)
	r.invokers[b.ID] = invoker
}

// List returns the catalog sorted ascending by priority
func (r *Registry) List() []models.Backend {
	out := make([]models.Backend, len(r.entries))
	copy(out, r.entries)
	return out
}

// Invoker returns the invoker bound to a backend id
func (r *Registry) Invoker(id string) (Invoker, bool) {
	invoker, ok := r.invokers[id]
	return invoker, ok
}

// ReorderPreferred moves the entry matching preferredID to the front of a
// copy of list, keeping the relative order of every other entry (stable
// partition). An empty or unknown id returns the input unchanged.
func ReorderPreferred(list []models.Backend, preferredID string) []models.Backend {
	if preferredID == "" {
		return list
	}

	idx := -1
	for i, b := range list {
		if b.ID == preferredID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list
	}

	out := make([]models.Backend, 0, len(list))
	out = append(out, list[idx])
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out
}
