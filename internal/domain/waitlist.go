package domain

import (
	"context"
	"time"
)

// WaitlistEntry is a landing-page signup.
type WaitlistEntry struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name,omitempty"`
	RoleInterest Role       `json:"role_interest,omitempty"`
	Source       string     `json:"source,omitempty"` // e.g. "job-fair", "recruiter-landing"
	SyncedAt     *time.Time `json:"synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type WaitlistRequest struct {
	Email        string `json:"email" validate:"required,email,max=254"`
	Name         string `json:"name" validate:"omitempty,max=100,valid_name"`
	RoleInterest string `json:"role_interest" validate:"omitempty,oneof=CANDIDATE RECRUITER candidate recruiter"`
	Source       string `json:"source" validate:"omitempty,max=50,no_emoji"`
}

type WaitlistRepository interface {
	// Create returns an AppError 409 when the email is already on the list.
	Create(ctx context.Context, entry *WaitlistEntry) error
	MarkSynced(ctx context.Context, id string, at time.Time) error
	CountBySource(ctx context.Context) (map[string]int64, error)
	// List returns the newest entries first.
	List(ctx context.Context, limit int) ([]WaitlistEntry, error)
}

// ContactSyncer pushes a signup to the marketing contact list.
type ContactSyncer interface {
	UpsertContact(ctx context.Context, entry *WaitlistEntry) error
}

type WaitlistUsecase interface {
	Join(ctx context.Context, req *WaitlistRequest) (*WaitlistEntry, error)
	Stats(ctx context.Context) (map[string]int64, error)
	// Export renders the waitlist as an .xlsx workbook and returns it with a file name.
	Export(ctx context.Context) ([]byte, string, error)
}
