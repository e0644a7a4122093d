package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
	"candidate-portal/pkg/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

// completionQueryTimeout bounds a shared completion query once it is detached
// from the caller that started it.
const completionQueryTimeout = 10 * time.Second

type profileUsecase struct {
	repo     domain.ProfileRepository
	validate *validator.Validate
	inflight singleflight.Group
}

func NewProfileUsecase(repo domain.ProfileRepository, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		repo:     repo,
		validate: validate,
	}
}

// ============================================================================
// Completion
// ============================================================================

// GetCompletion computes the completion from persisted sections. Concurrent
// calls for the same user share one query; each caller still honours its own ctx.
func (u *profileUsecase) GetCompletion(ctx context.Context, userID string) (*domain.ProfileCompletion, error) {
	if err := requireOwner(ctx, userID, "view your own profile completion"); err != nil {
		return nil, err
	}

	ch := u.inflight.DoChan(userID, func() (interface{}, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionQueryTimeout)
		defer cancel()
		return u.computeCompletion(qctx, userID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Shared result: hand every caller its own copy.
		return cloneCompletion(res.Val.(*domain.ProfileCompletion)), nil
	}
}

func (u *profileUsecase) computeCompletion(ctx context.Context, userID string) (*domain.ProfileCompletion, error) {
	keys, err := u.repo.ListCompletedSections(ctx, userID)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to load profile completion", err)
	}
	return NewCompletion(keys), nil
}

// NewCompletion builds a ProfileCompletion from the keys of completed sections.
// Unknown keys are ignored.
func NewCompletion(completed []domain.SectionKey) *domain.ProfileCompletion {
	sections := domain.OnboardingSections()
	out := &domain.ProfileCompletion{Sections: make(map[domain.SectionKey]bool, len(sections))}
	for _, s := range sections {
		out.Sections[s.Key] = false
	}

	done := 0
	for _, key := range completed {
		if seen, known := out.Sections[key]; known && !seen {
			out.Sections[key] = true
			done++
		}
	}
	out.TotalPercentage = done * 100 / len(sections)
	return out
}

func cloneCompletion(in *domain.ProfileCompletion) *domain.ProfileCompletion {
	out := &domain.ProfileCompletion{
		TotalPercentage: in.TotalPercentage,
		Sections:        make(map[domain.SectionKey]bool, len(in.Sections)),
	}
	for k, v := range in.Sections {
		out.Sections[k] = v
	}
	return out
}

// ============================================================================
// Sections
// ============================================================================

func (u *profileUsecase) GetSection(ctx context.Context, userID string, key domain.SectionKey) (*domain.SectionRecord, error) {
	if err := requireOwner(ctx, userID, "view your own profile"); err != nil {
		return nil, err
	}
	if _, ok := domain.SectionByKey(key); !ok {
		return nil, apperror.NotFound("Unknown profile section")
	}

	rec, err := u.repo.GetSection(ctx, userID, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Section has not been filled in yet")
		}
		return nil, apperror.Internal(err)
	}
	return rec, nil
}

func (u *profileUsecase) UpdateAccountIdentity(ctx context.Context, userID string, data *domain.AccountIdentity) (*domain.UpdateResult, error) {
	if data != nil {
		data.Email = strings.ToLower(strings.TrimSpace(data.Email))
		data.FirstName = strings.TrimSpace(data.FirstName)
		data.LastName = strings.TrimSpace(data.LastName)
	}
	return u.save(ctx, userID, domain.SectionAccountIdentity, data, nil)
}

func (u *profileUsecase) UpdatePersonalSocial(ctx context.Context, userID string, data *domain.PersonalSocial) (*domain.UpdateResult, error) {
	return u.save(ctx, userID, domain.SectionPersonalSocial, data, nil)
}

func (u *profileUsecase) UpdateEmployment(ctx context.Context, userID string, data *domain.Employment) (*domain.UpdateResult, error) {
	if data != nil && !data.HasExperience {
		data.Entries = []domain.EmploymentEntry{}
	}
	return u.save(ctx, userID, domain.SectionEmployment, data, nil)
}

func (u *profileUsecase) UpdateEducation(ctx context.Context, userID string, data *domain.Education) (*domain.UpdateResult, error) {
	return u.save(ctx, userID, domain.SectionEducation, data, nil)
}

func (u *profileUsecase) UpdateSkills(ctx context.Context, userID string, data *domain.Skills) (*domain.UpdateResult, error) {
	var tags []string
	if data != nil {
		data.Skills = normalizeList(data.Skills)
		tags = lowerAll(data.Skills)
	}
	return u.save(ctx, userID, domain.SectionSkills, data, tags)
}

func (u *profileUsecase) UpdateLocationPreferences(ctx context.Context, userID string, data *domain.LocationPreferences) (*domain.UpdateResult, error) {
	var tags []string
	if data != nil {
		data.PreferredLocations = normalizeList(data.PreferredLocations)
		tags = lowerAll(data.PreferredLocations)
	}
	return u.save(ctx, userID, domain.SectionLocationPreferences, data, tags)
}

func (u *profileUsecase) save(ctx context.Context, userID string, key domain.SectionKey, data interface{}, tags []string) (*domain.UpdateResult, error) {
	if err := requireOwner(ctx, userID, "update your own profile"); err != nil {
		return nil, err
	}
	if isNilPayload(data) {
		return nil, apperror.BadRequest("Request body is required")
	}

	if err := u.validate.Struct(data); err != nil {
		msgs := validation.FormatValidationErrors(err)
		return nil, apperror.Invalid(strings.Join(msgs, "; "), validation.FieldErrors(err))
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rec := &domain.SectionRecord{
		UserID:    userID,
		Key:       key,
		Payload:   payload,
		Tags:      tags,
		Completed: true,
	}
	if err := u.repo.SaveSection(ctx, rec); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save profile section", err)
	}

	section, _ := domain.SectionByKey(key)
	return &domain.UpdateResult{Success: true, Message: section.Title + " saved"}, nil
}

// isNilPayload catches typed nil pointers stored in the interface.
func isNilPayload(data interface{}) bool {
	switch v := data.(type) {
	case nil:
		return true
	case *domain.AccountIdentity:
		return v == nil
	case *domain.PersonalSocial:
		return v == nil
	case *domain.Employment:
		return v == nil
	case *domain.Education:
		return v == nil
	case *domain.Skills:
		return v == nil
	case *domain.LocationPreferences:
		return v == nil
	}
	return false
}

// normalizeList trims values and drops empties and case-insensitive duplicates.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		k := strings.ToLower(v)
		if v == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.ToLower(v)
	}
	return out
}
