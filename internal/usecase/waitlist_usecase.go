package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
	"candidate-portal/pkg/email"
	"candidate-portal/pkg/logger"
	"candidate-portal/pkg/security"
	"candidate-portal/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const contactSyncTimeout = 5 * time.Second

// WelcomeMailer sends the waitlist confirmation.
type WelcomeMailer interface {
	SendWaitlistWelcome(data email.WelcomeEmailData) error
}

type waitlistUsecase struct {
	repo     domain.WaitlistRepository
	syncer   domain.ContactSyncer
	mailer   WelcomeMailer
	validate *validator.Validate
	now      func() time.Time
}

func NewWaitlistUsecase(repo domain.WaitlistRepository, syncer domain.ContactSyncer, mailer WelcomeMailer, validate *validator.Validate) domain.WaitlistUsecase {
	return &waitlistUsecase{
		repo:     repo,
		syncer:   syncer,
		mailer:   mailer,
		validate: validate,
		now:      time.Now,
	}
}

// Join stores the signup first; contact sync and the welcome mail are best effort.
func (u *waitlistUsecase) Join(ctx context.Context, req *domain.WaitlistRequest) (*domain.WaitlistEntry, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Source = strings.ToLower(strings.TrimSpace(req.Source))

	if err := u.validate.Struct(req); err != nil {
		msgs := validation.FormatValidationErrors(err)
		return nil, apperror.Invalid(strings.Join(msgs, "; "), validation.FieldErrors(err))
	}

	entry := &domain.WaitlistEntry{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		RoleInterest: domain.ParseRole(req.RoleInterest),
		Source:       req.Source,
	}
	if err := u.repo.Create(ctx, entry); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Waitlist signup", "id", entry.ID, "email", security.MaskEmail(entry.Email), "source", entry.Source, "role_interest", entry.RoleInterest)

	u.syncContact(ctx, entry)

	if u.mailer != nil {
		err := u.mailer.SendWaitlistWelcome(email.WelcomeEmailData{
			Name:      entry.Name,
			Email:     entry.Email,
			Candidate: entry.RoleInterest != domain.RoleRecruiter,
		})
		if err != nil {
			logger.Log.Warn("Waitlist: welcome email not sent", "id", entry.ID, "error", err)
		}
	}

	return entry, nil
}

func (u *waitlistUsecase) syncContact(ctx context.Context, entry *domain.WaitlistEntry) {
	if u.syncer == nil {
		return
	}
	syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), contactSyncTimeout)
	defer cancel()

	if err := u.syncer.UpsertContact(syncCtx, entry); err != nil {
		logger.Log.Warn("Waitlist: contact sync failed", "id", entry.ID, "error", err)
		return
	}

	at := u.now().UTC()
	if err := u.repo.MarkSynced(syncCtx, entry.ID, at); err != nil {
		logger.Log.Warn("Waitlist: failed to record sync", "id", entry.ID, "error", err)
		return
	}
	entry.SyncedAt = &at
}

func (u *waitlistUsecase) Stats(ctx context.Context) (map[string]int64, error) {
	counts, err := u.repo.CountBySource(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return counts, nil
}
