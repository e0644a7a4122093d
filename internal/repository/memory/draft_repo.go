// Package memory holds process-local fallbacks used when Redis is not configured.
package memory

import (
	"context"
	"sync"
	"time"

	"candidate-portal/internal/domain"
)

type draftItem struct {
	draft     domain.DraftFormState
	expiresAt time.Time
}

type DraftRepository struct {
	mu    sync.Mutex
	items map[string]draftItem
	now   func() time.Time
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{items: make(map[string]draftItem), now: time.Now}
}

func draftKey(userID string, section domain.SectionKey) string {
	return userID + ":" + string(section)
}

func (r *DraftRepository) Get(_ context.Context, userID string, section domain.SectionKey) (*domain.DraftFormState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := draftKey(userID, section)
	item, ok := r.items[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.now().After(item.expiresAt) {
		delete(r.items, key)
		return nil, domain.ErrNotFound
	}
	draft := item.draft
	draft.Fields = cloneFields(item.draft.Fields)
	return &draft, nil
}

func (r *DraftRepository) Save(_ context.Context, draft *domain.DraftFormState, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *draft
	stored.Fields = cloneFields(draft.Fields)
	r.items[draftKey(draft.UserID, draft.Section)] = draftItem{draft: stored, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *DraftRepository) Delete(_ context.Context, userID string, section domain.SectionKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, draftKey(userID, section))
	return nil
}

// Sweep drops expired drafts.
func (r *DraftRepository) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for k, item := range r.items {
		if now.After(item.expiresAt) {
			delete(r.items, k)
		}
	}
}

func cloneFields(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
