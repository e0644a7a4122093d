package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/internal/repository/memory"
	"candidate-portal/internal/usecase"
	"candidate-portal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func completionOf(keys ...domain.SectionKey) *domain.ProfileCompletion {
	return usecase.NewCompletion(keys)
}

func newCoordinator() (domain.OnboardingCoordinator, *MockProfileUsecase, *memory.DraftRepository) {
	profiles := new(MockProfileUsecase)
	drafts := memory.NewDraftRepository()
	return usecase.NewOnboardingCoordinator(profiles, drafts, time.Hour), profiles, drafts
}

func TestOnboardingOverview(t *testing.T) {
	ctx := ctxFor("cand1", domain.RoleCandidate)

	t.Run("Checklist follows the fixed order with completion flags", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("GetCompletion", mock.Anything, "cand1").
			Return(completionOf(domain.SectionAccountIdentity, domain.SectionSkills), nil)

		ov, err := coord.Overview(ctx, "cand1")

		require.NoError(t, err)
		require.Len(t, ov.Checklist, 6)
		assert.Equal(t, "/profile/account-identity", ov.Checklist[0].Route)
		assert.True(t, ov.Checklist[0].Complete)
		assert.False(t, ov.Checklist[1].Complete)
		assert.True(t, ov.Checklist[4].Complete)
		assert.Equal(t, 33, ov.Progress)
		assert.False(t, ov.DashboardUnlocked)
		assert.Empty(t, ov.RedirectTo)
	})

	t.Run("Complete profile redirects to the dashboard", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("GetCompletion", mock.Anything, "cand1").Return(complete(), nil)

		ov, err := coord.Overview(ctx, "cand1")

		require.NoError(t, err)
		assert.True(t, ov.DashboardUnlocked)
		assert.Equal(t, "/dashboard", ov.RedirectTo)
		assert.Equal(t, 100, ov.Progress)
	})

	t.Run("Fetch failure keeps sections navigable and the dashboard locked", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("GetCompletion", mock.Anything, "cand1").Return(nil, apperror.Internal(errors.New("db down")))

		ov, err := coord.Overview(ctx, "cand1")

		require.NoError(t, err)
		assert.Nil(t, ov.Completion)
		assert.False(t, ov.DashboardUnlocked)
		assert.Empty(t, ov.RedirectTo)
		require.Len(t, ov.Checklist, 6)
		for _, item := range ov.Checklist {
			assert.False(t, item.Complete)
			assert.NotEmpty(t, item.Route)
		}
	})

	t.Run("Authorization failures are returned", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("GetCompletion", mock.Anything, "cand2").Return(nil, apperror.Forbidden("no"))

		_, err := coord.Overview(ctx, "cand2")
		assert.Equal(t, http.StatusForbidden, apperror.StatusCode(err))
	})
}

func TestOnboardingSectionForm(t *testing.T) {
	ctx := ctxFor("cand1", domain.RoleCandidate)

	t.Run("Complete profile yields a redirect and no form data", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("GetCompletion", mock.Anything, "cand1").Return(complete(), nil)

		form, err := coord.SectionForm(ctx, "cand1", domain.SectionEducation)

		require.NoError(t, err)
		assert.Equal(t, "/dashboard", form.RedirectTo)
		assert.Nil(t, form.Record)
		assert.Nil(t, form.Draft)
		profiles.AssertNotCalled(t, "GetSection", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Loads the saved record and rehydrates the draft", func(t *testing.T) {
		coord, profiles, drafts := newCoordinator()
		profiles.On("GetCompletion", mock.Anything, "cand1").Return(completionOf(domain.SectionEducation), nil)
		rec := &domain.SectionRecord{UserID: "cand1", Key: domain.SectionEducation, Payload: []byte(`{"entries":[]}`)}
		profiles.On("GetSection", mock.Anything, "cand1", domain.SectionEducation).Return(rec, nil)
		require.NoError(t, drafts.Save(context.Background(), &domain.DraftFormState{
			UserID: "cand1", Section: domain.SectionEducation,
			Fields: map[string][]string{"institution": {"ITB"}},
		}, time.Hour))

		form, err := coord.SectionForm(ctx, "cand1", domain.SectionEducation)

		require.NoError(t, err)
		assert.Equal(t, "Education", form.Section.Title)
		assert.Equal(t, rec, form.Record)
		require.NotNil(t, form.Draft)
		assert.Equal(t, []string{"ITB"}, form.Draft.Fields["institution"])
	})

	t.Run("Unfilled section renders an empty form", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("GetCompletion", mock.Anything, "cand1").Return(completionOf(), nil)
		profiles.On("GetSection", mock.Anything, "cand1", domain.SectionSkills).Return(nil, apperror.NotFound("none"))

		form, err := coord.SectionForm(ctx, "cand1", domain.SectionSkills)

		require.NoError(t, err)
		assert.Nil(t, form.Record)
		assert.Nil(t, form.Draft)
		assert.Empty(t, form.RedirectTo)
	})

	t.Run("Unknown section is 404", func(t *testing.T) {
		coord, _, _ := newCoordinator()
		_, err := coord.SectionForm(ctx, "cand1", "hobbies")
		assert.Equal(t, http.StatusNotFound, apperror.StatusCode(err))
	})
}

func TestOnboardingSubmitSection(t *testing.T) {
	ctx := ctxFor("cand1", domain.RoleCandidate)
	education := &domain.Education{Entries: []domain.EducationEntry{{Institution: "ITB", Degree: "BACHELOR"}}}

	t.Run("Education advances to skills even when skills is complete", func(t *testing.T) {
		coord, profiles, drafts := newCoordinator()
		profiles.On("UpdateEducation", mock.Anything, "cand1", education).
			Return(&domain.UpdateResult{Success: true, Message: "Education saved"}, nil)
		require.NoError(t, drafts.Save(context.Background(), &domain.DraftFormState{
			UserID: "cand1", Section: domain.SectionEducation, Fields: map[string][]string{"institution": {"IT"}},
		}, time.Hour))

		res, err := coord.SubmitSection(ctx, "cand1", domain.SectionEducation, education)

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "/profile/skills", res.NextRoute)
		_, err = drafts.Get(context.Background(), "cand1", domain.SectionEducation)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		profiles.AssertNotCalled(t, "GetCompletion", mock.Anything, mock.Anything)
	})

	t.Run("Every section advances to its static successor", func(t *testing.T) {
		payloads := map[domain.SectionKey]any{
			domain.SectionAccountIdentity:     &domain.AccountIdentity{},
			domain.SectionPersonalSocial:      &domain.PersonalSocial{},
			domain.SectionEmployment:          &domain.Employment{},
			domain.SectionEducation:           &domain.Education{},
			domain.SectionSkills:              &domain.Skills{},
			domain.SectionLocationPreferences: &domain.LocationPreferences{},
		}
		methods := map[domain.SectionKey]string{
			domain.SectionAccountIdentity:     "UpdateAccountIdentity",
			domain.SectionPersonalSocial:      "UpdatePersonalSocial",
			domain.SectionEmployment:          "UpdateEmployment",
			domain.SectionEducation:           "UpdateEducation",
			domain.SectionSkills:              "UpdateSkills",
			domain.SectionLocationPreferences: "UpdateLocationPreferences",
		}

		sections := domain.OnboardingSections()
		for i, s := range sections {
			coord, profiles, _ := newCoordinator()
			profiles.On(methods[s.Key], mock.Anything, "cand1", payloads[s.Key]).
				Return(&domain.UpdateResult{Success: true}, nil)

			res, err := coord.SubmitSection(ctx, "cand1", s.Key, payloads[s.Key])

			require.NoError(t, err)
			want := "/profile"
			if i+1 < len(sections) {
				want = sections[i+1].Route
			}
			assert.Equal(t, want, res.NextRoute, s.Key)
		}
	})

	t.Run("Validation failure does not advance and keeps the draft", func(t *testing.T) {
		coord, profiles, drafts := newCoordinator()
		profiles.On("UpdateEducation", mock.Anything, "cand1", mock.Anything).
			Return(nil, apperror.Invalid("Entries: is required", map[string]string{"entries": "Entries: is required"}))
		require.NoError(t, drafts.Save(context.Background(), &domain.DraftFormState{
			UserID: "cand1", Section: domain.SectionEducation, Fields: map[string][]string{"institution": {""}},
		}, time.Hour))

		res, err := coord.SubmitSection(ctx, "cand1", domain.SectionEducation, &domain.Education{})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Empty(t, res.NextRoute)
		assert.Equal(t, "Entries: is required", res.Message)
		assert.Equal(t, "Entries: is required", res.FieldErrors["entries"])
		_, err = drafts.Get(context.Background(), "cand1", domain.SectionEducation)
		assert.NoError(t, err)
	})

	t.Run("Backend failure surfaces a generic message", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("UpdateSkills", mock.Anything, "cand1", mock.Anything).
			Return(nil, apperror.Internal(errors.New("db down")))

		res, err := coord.SubmitSection(ctx, "cand1", domain.SectionSkills, &domain.Skills{Skills: []string{"Go"}})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.NotContains(t, res.Message, "db down")
		assert.Empty(t, res.NextRoute)
	})

	t.Run("Unsuccessful result is reported without advancing", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("UpdateSkills", mock.Anything, "cand1", mock.Anything).
			Return(&domain.UpdateResult{Success: false, Message: "Skill list rejected"}, nil)

		res, err := coord.SubmitSection(ctx, "cand1", domain.SectionSkills, &domain.Skills{})

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Skill list rejected", res.Message)
		assert.Empty(t, res.NextRoute)
	})

	t.Run("Mismatched payload is rejected", func(t *testing.T) {
		coord, _, _ := newCoordinator()

		res, err := coord.SubmitSection(ctx, "cand1", domain.SectionSkills, education)

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "does not match")
	})

	t.Run("Forbidden is returned as an error", func(t *testing.T) {
		coord, profiles, _ := newCoordinator()
		profiles.On("UpdateEducation", mock.Anything, "cand2", education).Return(nil, apperror.Forbidden("no"))

		_, err := coord.SubmitSection(ctx, "cand2", domain.SectionEducation, education)
		assert.Equal(t, http.StatusForbidden, apperror.StatusCode(err))
	})
}

func TestOnboardingDrafts(t *testing.T) {
	ctx := ctxFor("cand1", domain.RoleCandidate)

	t.Run("Save then get round trip", func(t *testing.T) {
		coord, _, _ := newCoordinator()

		saved, err := coord.SaveDraft(ctx, "cand1", domain.SectionSkills, map[string][]string{"skills": {"Go", "SQL"}})
		require.NoError(t, err)
		assert.False(t, saved.UpdatedAt.IsZero())

		got, err := coord.GetDraft(ctx, "cand1", domain.SectionSkills)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go", "SQL"}, got.Fields["skills"])
	})

	t.Run("Missing draft is 404", func(t *testing.T) {
		coord, _, _ := newCoordinator()
		_, err := coord.GetDraft(ctx, "cand1", domain.SectionSkills)
		assert.Equal(t, http.StatusNotFound, apperror.StatusCode(err))
	})

	t.Run("Discard removes the draft", func(t *testing.T) {
		coord, _, _ := newCoordinator()
		_, err := coord.SaveDraft(ctx, "cand1", domain.SectionEducation, map[string][]string{"degree": {"MASTER"}})
		require.NoError(t, err)

		require.NoError(t, coord.DiscardDraft(ctx, "cand1", domain.SectionEducation))

		_, err = coord.GetDraft(ctx, "cand1", domain.SectionEducation)
		assert.Equal(t, http.StatusNotFound, apperror.StatusCode(err))
	})

	t.Run("Oversized values are rejected", func(t *testing.T) {
		coord, _, _ := newCoordinator()
		_, err := coord.SaveDraft(ctx, "cand1", domain.SectionPersonalSocial, map[string][]string{"bio": {strings.Repeat("x", 5000)}})
		assert.Equal(t, http.StatusBadRequest, apperror.StatusCode(err))
	})

	t.Run("Other users' drafts are off limits", func(t *testing.T) {
		coord, _, _ := newCoordinator()
		_, err := coord.SaveDraft(ctx, "cand2", domain.SectionSkills, map[string][]string{"skills": {"Go"}})
		assert.Equal(t, http.StatusForbidden, apperror.StatusCode(err))
	})
}
