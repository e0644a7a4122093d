package usecase

import (
	"context"
	"strings"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/brevo"
)

type brevoContactSyncer struct {
	client *brevo.Client
	listID int64
}

// NewBrevoContactSyncer adds waitlist signups to a Brevo contact list.
func NewBrevoContactSyncer(client *brevo.Client, listID int64) domain.ContactSyncer {
	return &brevoContactSyncer{client: client, listID: listID}
}

func (s *brevoContactSyncer) UpsertContact(ctx context.Context, entry *domain.WaitlistEntry) error {
	attrs := map[string]any{}
	if entry.Name != "" {
		first, last, _ := strings.Cut(entry.Name, " ")
		attrs["FIRSTNAME"] = first
		if last != "" {
			attrs["LASTNAME"] = last
		}
	}
	if entry.RoleInterest != "" {
		attrs["ROLE_INTEREST"] = string(entry.RoleInterest)
	}
	if entry.Source != "" {
		attrs["SIGNUP_SOURCE"] = entry.Source
	}

	contact := brevo.Contact{
		Email:         entry.Email,
		Attributes:    attrs,
		UpdateEnabled: true,
	}
	if s.listID > 0 {
		contact.ListIDs = []int64{s.listID}
	}
	return s.client.CreateContact(ctx, contact)
}
