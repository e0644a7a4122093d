package domain

import "context"

// ContactRequest is an enquiry sent from the landing page.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

type ContactUsecase interface {
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}
