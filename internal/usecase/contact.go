package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
	"candidate-portal/pkg/email"
)

// ContactMailer is the part of email.EmailService the contact form needs.
type ContactMailer interface {
	SendContactEmail(data email.ContactEmailData) error
}

type contactUsecase struct {
	mailer ContactMailer
}

func NewContactUsecase(mailer ContactMailer) domain.ContactUsecase {
	return &contactUsecase{mailer: mailer}
}

// SendContactMessage validates the contact request and sends the email
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	data := email.ContactEmailData{
		SenderName:  strings.TrimSpace(req.Name),
		SenderEmail: strings.TrimSpace(req.Email),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     strings.TrimSpace(req.Message),
	}
	// Binding accepts whitespace-only values.
	if data.SenderName == "" || data.SenderEmail == "" || data.Subject == "" || data.Message == "" {
		return apperror.BadRequest("Name, email, subject and message are required")
	}

	if err := uc.mailer.SendContactEmail(data); err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return apperror.Unavailable("Contact service temporarily unavailable", err)
		}
		return apperror.New(http.StatusInternalServerError, "Failed to send message. Please try again later.", err)
	}
	return nil
}
