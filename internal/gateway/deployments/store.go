package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pageforge/gateway/internal/shared/kv"
	"github.com/pageforge/gateway/internal/shared/models"
)

// keyPrefix namespaces deployment records in the shared key-value store.
const keyPrefix = "deployment:"

// DefaultListLimit bounds listings when the caller does not say how many.
const DefaultListLimit = 20

// MaxListLimit caps how many records one listing call may return.
const MaxListLimit = 100

// Store persists deployment records in a durable key-value store. IDs are
// ULIDs, so lexicographic key order is creation order and listings can sort
// keys instead of loading every record.
type Store struct {
	kv  kv.Store
	now func() time.Time
}

// NewStore creates a deployment store over the given key-value backend
func NewStore(store kv.Store) *Store {
	return &Store{kv: store, now: time.Now}
}

// Create persists a new deployment for the given generation outcome and
// returns the full record. Records never expire.
func (s *Store) Create(ctx context.Context, prompt string, result models.GenerationResult) (models.DeploymentRecord, error) {
	record := models.DeploymentRecord{
		ID:        ulid.Make().String(),
		Prompt:    prompt,
		Code:      result.Code,
		Method:    result.Method,
		Status:    models.StatusCompleted,
		CreatedAt: s.now().UTC(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return models.DeploymentRecord{}, fmt.Errorf("failed to encode deployment: %w", err)
	}

	if err := s.kv.Put(ctx, keyPrefix+record.ID, string(payload), 0); err != nil {
		return models.DeploymentRecord{}, fmt.Errorf("failed to persist deployment: %w", err)
	}

	return record, nil
}

// Get returns the full record for id, code included. A missing id returns
// (nil, nil).
func (s *Store) Get(ctx context.Context, id string) (*models.DeploymentRecord, error) {
	value, ok, err := s.kv.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}

	var record models.DeploymentRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("failed to decode deployment %s: %w", id, err)
	}
	return &record, nil
}

// GetSummary returns the record for id with the code stripped
func (s *Store) GetSummary(ctx context.Context, id string) (*models.DeploymentRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil || record == nil {
		return record, err
	}
	summary := record.Summary()
	return &summary, nil
}

// ListResult is one page of deployment summaries plus the total count
type ListResult struct {
	Items []models.DeploymentRecord `json:"items"`
	Total int                       `json:"total"`
}

// List returns up to limit summaries, most recent first, along with the
// total number of stored deployments. Limits outside [1, MaxListLimit]
// are clamped.
func (s *Store) List(ctx context.Context, limit int) (ListResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	keys, err := s.kv.List(ctx, keyPrefix)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list deployments: %w", err)
	}

	// ULIDs are time-ordered, so reverse key order is most recent first.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	result := ListResult{Total: len(keys), Items: []models.DeploymentRecord{}}
	for _, key := range keys {
		if len(result.Items) == limit {
			break
		}
		record, err := s.Get(ctx, strings.TrimPrefix(key, keyPrefix))
		if err != nil {
			return ListResult{}, err
		}
		if record == nil {
			// deleted between the key scan and the read
			continue
		}
		result.Items = append(result.Items, record.Summary())
	}

	return result, nil
}
