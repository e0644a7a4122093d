package domain

import (
	"context"
	"time"
)

// UnreadPollInterval is how often clients are expected to poll the unread count.
const UnreadPollInterval = 30 * time.Second

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Link      string     `json:"link,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type UnreadCount struct {
	Count               int64 `json:"count"`
	PollIntervalSeconds int   `json:"poll_interval_seconds"`
}

type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead returns ErrNotFound when the notification does not belong to userID.
	MarkRead(ctx context.Context, userID, id string, at time.Time) error
}

// CountCache is a short-lived cache in front of CountUnread.
type CountCache interface {
	Get(ctx context.Context, key string) (int64, bool)
	Set(ctx context.Context, key string, value int64, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
}

type NotificationUsecase interface {
	List(ctx context.Context, userID string) ([]Notification, error)
	UnreadCount(ctx context.Context, userID string) (*UnreadCount, error)
	MarkRead(ctx context.Context, userID, id string) error
}
