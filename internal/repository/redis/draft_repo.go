package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"candidate-portal/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "draft:"

type draftRepo struct {
	client goredis.Cmdable
}

func NewDraftRepository(client goredis.Cmdable) domain.DraftRepository {
	return &draftRepo{client: client}
}

func draftKey(userID string, section domain.SectionKey) string {
	return draftKeyPrefix + userID + ":" + string(section)
}

func (r *draftRepo) Get(ctx context.Context, userID string, section domain.SectionKey) (*domain.DraftFormState, error) {
	raw, err := r.client.Get(ctx, draftKey(userID, section)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var draft domain.DraftFormState
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

func (r *draftRepo) Save(ctx context.Context, draft *domain.DraftFormState, ttl time.Duration) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(draft.UserID, draft.Section), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *draftRepo) Delete(ctx context.Context, userID string, section domain.SectionKey) error {
	if err := r.client.Del(ctx, draftKey(userID, section)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
