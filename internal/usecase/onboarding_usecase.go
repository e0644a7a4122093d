package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
	"candidate-portal/pkg/logger"
)

// Limits on what a draft may hold.
const (
	maxDraftFields     = 60
	maxDraftValueBytes = 4000
)

type onboardingCoordinator struct {
	profiles domain.ProfileUsecase
	drafts   domain.DraftRepository
	draftTTL time.Duration
	now      func() time.Time
}

func NewOnboardingCoordinator(profiles domain.ProfileUsecase, drafts domain.DraftRepository, draftTTL time.Duration) domain.OnboardingCoordinator {
	if draftTTL <= 0 {
		draftTTL = 7 * 24 * time.Hour
	}
	return &onboardingCoordinator{
		profiles: profiles,
		drafts:   drafts,
		draftTTL: draftTTL,
		now:      time.Now,
	}
}

// ============================================================================
// Overview
// ============================================================================

func (c *onboardingCoordinator) Overview(ctx context.Context, userID string) (*domain.OnboardingOverview, error) {
	completion, err := c.fetchCompletion(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &domain.OnboardingOverview{
		Checklist:  domain.BuildChecklist(completion),
		Completion: completion,
	}

	if completion != nil {
		overview.Progress = completion.TotalPercentage
	}
	if completion.IsComplete() {
		overview.DashboardUnlocked = true
		overview.RedirectTo = domain.RouteDashboard
	}
	return overview, nil
}

func (c *onboardingCoordinator) SectionForm(ctx context.Context, userID string, key domain.SectionKey) (*domain.SectionForm, error) {
	section, ok := domain.SectionByKey(key)
	if !ok {
		return nil, apperror.NotFound("Unknown profile section")
	}

	completion, err := c.fetchCompletion(ctx, userID)
	if err != nil {
		return nil, err
	}

	form := &domain.SectionForm{Section: section, Completion: completion}
	if completion.IsComplete() {
		form.RedirectTo = domain.RouteDashboard
		return form, nil
	}

	rec, err := c.profiles.GetSection(ctx, userID, key)
	switch {
	case err == nil:
		form.Record = rec
	case apperror.StatusCode(err) != http.StatusNotFound:
		logger.Log.Warn("Onboarding: failed to load section", "user_id", userID, "section", key, "error", err)
	}

	draft, err := c.drafts.Get(ctx, userID, key)
	switch {
	case err == nil:
		form.Draft = draft
	case !errors.Is(err, domain.ErrNotFound):
		logger.Log.Warn("Onboarding: failed to load draft", "user_id", userID, "section", key, "error", err)
	}

	return form, nil
}

// fetchCompletion swallows backend failures: the caller renders with a nil
// completion (dashboard locked, sections navigable). Authorization failures
// are still returned.
func (c *onboardingCoordinator) fetchCompletion(ctx context.Context, userID string) (*domain.ProfileCompletion, error) {
	completion, err := c.profiles.GetCompletion(ctx, userID)
	if err == nil {
		return completion, nil
	}
	switch apperror.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, err
	}
	logger.Log.Error("Onboarding: completion fetch failed", "user_id", userID, "error", err)
	return nil, nil
}

// ============================================================================
// Submit
// ============================================================================

func (c *onboardingCoordinator) SubmitSection(ctx context.Context, userID string, key domain.SectionKey, payload any) (*domain.SectionSubmitResult, error) {
	section, ok := domain.SectionByKey(key)
	if !ok {
		return nil, apperror.NotFound("Unknown profile section")
	}

	res, err := ApplySectionUpdate(ctx, c.profiles, userID, key, payload)
	if err != nil {
		switch code := apperror.StatusCode(err); code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return nil, err
		}
		result := &domain.SectionSubmitResult{Success: false, Message: "Failed to save. Please try again."}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code < http.StatusInternalServerError {
				result.Message = appErr.Message
			}
			if fields, ok := appErr.Details.(map[string]string); ok {
				result.FieldErrors = fields
			}
		}
		if apperror.StatusCode(err) >= http.StatusInternalServerError {
			logger.Log.Error("Onboarding: section update failed", "user_id", userID, "section", key, "error", err)
		}
		return result, nil
	}
	if !res.Success {
		return &domain.SectionSubmitResult{Success: false, Message: res.Message}, nil
	}

	if err := c.drafts.Delete(ctx, userID, key); err != nil {
		logger.Log.Warn("Onboarding: failed to discard draft", "user_id", userID, "section", key, "error", err)
	}

	// Always the configured successor, even if it is already complete.
	return &domain.SectionSubmitResult{
		Success:   true,
		Message:   res.Message,
		NextRoute: section.Next,
	}, nil
}

// ApplySectionUpdate routes a typed section payload to its update operation.
func ApplySectionUpdate(ctx context.Context, profiles domain.ProfileUsecase, userID string, key domain.SectionKey, payload any) (*domain.UpdateResult, error) {
	switch key {
	case domain.SectionAccountIdentity:
		if p, ok := payload.(*domain.AccountIdentity); ok {
			return profiles.UpdateAccountIdentity(ctx, userID, p)
		}
	case domain.SectionPersonalSocial:
		if p, ok := payload.(*domain.PersonalSocial); ok {
			return profiles.UpdatePersonalSocial(ctx, userID, p)
		}
	case domain.SectionEmployment:
		if p, ok := payload.(*domain.Employment); ok {
			return profiles.UpdateEmployment(ctx, userID, p)
		}
	case domain.SectionEducation:
		if p, ok := payload.(*domain.Education); ok {
			return profiles.UpdateEducation(ctx, userID, p)
		}
	case domain.SectionSkills:
		if p, ok := payload.(*domain.Skills); ok {
			return profiles.UpdateSkills(ctx, userID, p)
		}
	case domain.SectionLocationPreferences:
		if p, ok := payload.(*domain.LocationPreferences); ok {
			return profiles.UpdateLocationPreferences(ctx, userID, p)
		}
	}
	return nil, apperror.BadRequest("Payload does not match section " + string(key))
}

// ============================================================================
// Drafts
// ============================================================================

func (c *onboardingCoordinator) GetDraft(ctx context.Context, userID string, key domain.SectionKey) (*domain.DraftFormState, error) {
	if err := c.checkDraftAccess(ctx, userID, key); err != nil {
		return nil, err
	}
	draft, err := c.drafts.Get(ctx, userID, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("No draft saved for this section")
		}
		return nil, apperror.Internal(err)
	}
	return draft, nil
}

func (c *onboardingCoordinator) SaveDraft(ctx context.Context, userID string, key domain.SectionKey, fields map[string][]string) (*domain.DraftFormState, error) {
	if err := c.checkDraftAccess(ctx, userID, key); err != nil {
		return nil, err
	}
	if len(fields) > maxDraftFields {
		return nil, apperror.BadRequest("Draft has too many fields")
	}
	for name, values := range fields {
		size := len(name)
		for _, v := range values {
			size += len(v)
		}
		if size > maxDraftValueBytes {
			return nil, apperror.BadRequest("Draft field " + name + " is too large")
		}
	}

	draft := &domain.DraftFormState{
		UserID:    userID,
		Section:   key,
		Fields:    fields,
		UpdatedAt: c.now().UTC(),
	}
	if err := c.drafts.Save(ctx, draft, c.draftTTL); err != nil {
		return nil, apperror.Internal(err)
	}
	return draft, nil
}

func (c *onboardingCoordinator) DiscardDraft(ctx context.Context, userID string, key domain.SectionKey) error {
	if err := c.checkDraftAccess(ctx, userID, key); err != nil {
		return err
	}
	if err := c.drafts.Delete(ctx, userID, key); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (c *onboardingCoordinator) checkDraftAccess(ctx context.Context, userID string, key domain.SectionKey) error {
	if err := requireOwner(ctx, userID, "access your own drafts"); err != nil {
		return err
	}
	if _, ok := domain.SectionByKey(key); !ok {
		return apperror.NotFound("Unknown profile section")
	}
	return nil
}
