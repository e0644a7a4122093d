package usecase

import (
	"context"
	"errors"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
)

type notificationUsecase struct {
	repo     domain.NotificationRepository
	cache    domain.CountCache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewNotificationUsecase(repo domain.NotificationRepository, cache domain.CountCache, cacheTTL time.Duration) domain.NotificationUsecase {
	return &notificationUsecase{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func (u *notificationUsecase) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	if err := requireOwner(ctx, userID, "view your own notifications"); err != nil {
		return nil, err
	}
	items, err := u.repo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

// UnreadCount is polled by every open page, so it is served from a short cache.
func (u *notificationUsecase) UnreadCount(ctx context.Context, userID string) (*domain.UnreadCount, error) {
	if err := requireOwner(ctx, userID, "view your own notifications"); err != nil {
		return nil, err
	}

	out := &domain.UnreadCount{PollIntervalSeconds: int(domain.UnreadPollInterval / time.Second)}
	if n, ok := u.cache.Get(ctx, userID); ok {
		out.Count = n
		return out, nil
	}

	n, err := u.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.cache.Set(ctx, userID, n, u.cacheTTL)
	out.Count = n
	return out, nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, userID, id string) error {
	if err := requireOwner(ctx, userID, "update your own notifications"); err != nil {
		return err
	}
	if err := u.repo.MarkRead(ctx, userID, id, u.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Notification not found")
		}
		return apperror.Internal(err)
	}
	u.cache.Invalidate(ctx, userID)
	return nil
}
