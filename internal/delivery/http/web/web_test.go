package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"candidate-portal/internal/delivery/http/middleware"
	"candidate-portal/internal/delivery/http/web"
	"candidate-portal/internal/domain"
	"candidate-portal/internal/repository/memory"
	"candidate-portal/internal/usecase"
	"candidate-portal/pkg/auth"
	"candidate-portal/pkg/supersede"
	"candidate-portal/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "page-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// sectionStore is an in-memory domain.ProfileRepository.
type sectionStore struct {
	mu   sync.Mutex
	recs map[string]*domain.SectionRecord
}

func newSectionStore() *sectionStore {
	return &sectionStore{recs: map[string]*domain.SectionRecord{}}
}

func (s *sectionStore) ListCompletedSections(_ context.Context, userID string) ([]domain.SectionKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []domain.SectionKey
	for _, r := range s.recs {
		if r.UserID == userID && r.Completed {
			keys = append(keys, r.Key)
		}
	}
	return keys, nil
}

func (s *sectionStore) GetSection(_ context.Context, userID string, key domain.SectionKey) (*domain.SectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recs[userID+"/"+string(key)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (s *sectionStore) SaveSection(_ context.Context, rec *domain.SectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.UserID+"/"+string(rec.Key)] = rec
	return nil
}

func (s *sectionStore) complete(userID string, keys ...domain.SectionKey) {
	for _, k := range keys {
		_ = s.SaveSection(context.Background(), &domain.SectionRecord{UserID: userID, Key: k, Payload: []byte(`{}`), Completed: true})
	}
}

type fixture struct {
	router *gin.Engine
	store  *sectionStore
	drafts *memory.DraftRepository
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	verifier := auth.NewVerifier(testSecret, nil)
	store := newSectionStore()
	drafts := memory.NewDraftRepository()
	profiles := usecase.NewProfileUsecase(store, validation.New())
	coordinator := usecase.NewOnboardingCoordinator(profiles, drafts, time.Hour)
	guard := usecase.NewAccessGuard(profiles, supersede.New(), usecase.GuardConfig{FailOpen: true, FetchTimeout: time.Second})

	r := gin.New()
	r.Use(middleware.SessionProvider(verifier))
	web.Register(r, web.NewHandler(coordinator, verifier, web.Config{DraftTTL: time.Hour}), middleware.AccessGuard(guard))

	token, err := verifier.Sign("cand1", string(domain.RoleCandidate), time.Hour)
	require.NoError(t, err)
	return &fixture{router: r, store: store, drafts: drafts, token: token}
}

func (f *fixture) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: domain.CookieToken, Value: f.token})
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

var allSections = []domain.SectionKey{
	domain.SectionAccountIdentity, domain.SectionPersonalSocial, domain.SectionEmployment,
	domain.SectionEducation, domain.SectionSkills, domain.SectionLocationPreferences,
}

func TestSubmitEducationAdvancesToSkills(t *testing.T) {
	f := newFixture(t)
	f.store.complete("cand1", domain.SectionSkills)

	w := f.do(http.MethodPost, "/profile/education", url.Values{
		"action":          {"submit"},
		"institution":     {"Universitas Gadjah Mada", ""},
		"degree":          {"BACHELOR", ""},
		"field_of_study":  {"Economics", ""},
		"graduation_year": {"2018", ""},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/skills", w.Header().Get("Location"))

	rec, err := f.store.GetSection(context.Background(), "cand1", domain.SectionEducation)
	require.NoError(t, err)
	assert.Contains(t, string(rec.Payload), "Universitas Gadjah Mada")
}

func TestLastSectionReturnsToProfileThenDashboard(t *testing.T) {
	f := newFixture(t)
	f.store.complete("cand1", allSections[:5]...)

	w := f.do(http.MethodPost, "/profile/location-preferences", url.Values{
		"current_city": {"Surabaya"},
		"work_mode":    {"REMOTE"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestCompleteProfileNeverRendersSectionForm(t *testing.T) {
	f := newFixture(t)
	f.store.complete("cand1", allSections...)

	w := f.do(http.MethodGet, "/profile/education", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "<form")

	w = f.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIncompleteCandidateIsSentToProfile(t *testing.T) {
	f := newFixture(t)
	f.store.complete("cand1", allSections[:4]...)

	for _, path := range []string{"/dashboard", "/jobs", "/assessments/quiz-1"} {
		w := f.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/profile", w.Header().Get("Location"), path)
	}

	w := f.do(http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "66% complete")
}

func TestFailedSubmitKeepsValuesAndDraft(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/profile/personal-social", url.Values{
		"gender":   {"FEMALE"},
		"headline": {""},
		"bio":      {"Product designer"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Headline: is required")
	assert.Contains(t, body, "Product designer")

	draft, err := f.drafts.Get(context.Background(), "cand1", domain.SectionPersonalSocial)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product designer"}, draft.Fields["bio"])

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "personal_social_data" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
}

func TestSaveDraftAndRehydrate(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/profile/skills", url.Values{
		"action": {"draft"},
		"skills": {"Go, Kubernetes"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/skills?draft=saved", w.Header().Get("Location"))

	w = f.do(http.MethodGet, "/profile/skills?draft=saved", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go, Kubernetes")
	assert.Contains(t, w.Body.String(), "Draft saved.")
}

func TestSuccessfulSubmitDiscardsDraft(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.drafts.Save(context.Background(), &domain.DraftFormState{
		UserID: "cand1", Section: domain.SectionSkills, Fields: map[string][]string{"skills": {"Go"}},
	}, time.Hour))

	w := f.do(http.MethodPost, "/profile/skills", url.Values{"skills": {"Go, SQL"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/location-preferences", w.Header().Get("Location"))
	_, err := f.drafts.Get(context.Background(), "cand1", domain.SectionSkills)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSavedSectionIsPrefilled(t *testing.T) {
	f := newFixture(t)
	_ = f.store.SaveSection(context.Background(), &domain.SectionRecord{
		UserID: "cand1", Key: domain.SectionEmployment, Completed: true,
		Payload: []byte(`{"has_experience":true,"entries":[{"company_name":"Tokopedia","job_title":"Engineer","start_year":2019}]}`),
	})

	w := f.do(http.MethodGet, "/profile/employment", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="Tokopedia"`)
	assert.Contains(t, body, `value="2019"`)
	assert.Contains(t, body, "checked")
}

// draftCookieFrom saves a skills draft through the page and returns the
// browser copy, with the server-side draft removed.
func draftCookieFrom(t *testing.T, f *fixture, skills string) *http.Cookie {
	t.Helper()
	w := f.do(http.MethodPost, "/profile/skills", url.Values{"action": {"draft"}, "skills": {skills}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "skills_data" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.NoError(t, f.drafts.Delete(context.Background(), "cand1", domain.SectionSkills))
	return cookie
}

func TestDraftCookieYieldsToLaterSave(t *testing.T) {
	f := newFixture(t)
	cookie := draftCookieFrom(t, f, "Go, Kubernetes")

	// Saved afterwards through the JSON API.
	_ = f.store.SaveSection(context.Background(), &domain.SectionRecord{
		UserID: "cand1", Key: domain.SectionSkills, Completed: true,
		Payload: []byte(`{"skills":["Go","SQL"]}`), UpdatedAt: time.Now().Add(time.Minute),
	})

	w := f.do(http.MethodGet, "/profile/skills", nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go, SQL")
	assert.NotContains(t, w.Body.String(), "Go, Kubernetes")
	for _, c := range w.Result().Cookies() {
		if c.Name == "skills_data" {
			assert.Empty(t, c.Value)
		}
	}
}

func TestDraftCookieWinsOverOlderSave(t *testing.T) {
	f := newFixture(t)
	_ = f.store.SaveSection(context.Background(), &domain.SectionRecord{
		UserID: "cand1", Key: domain.SectionSkills, Completed: true,
		Payload: []byte(`{"skills":["Go","SQL"]}`), UpdatedAt: time.Now().Add(-time.Hour),
	})
	cookie := draftCookieFrom(t, f, "Go, Kubernetes")

	w := f.do(http.MethodGet, "/profile/skills", nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go, Kubernetes")
}

func TestUnknownSectionIs404(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/profile/hobbies", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousVisitorIsSentToSignIn(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/authentication", w.Header().Get("Location"))
}

func TestCreateSessionSetsCookies(t *testing.T) {
	f := newFixture(t)
	form := url.Values{"token": {f.token}}
	req := httptest.NewRequest(http.MethodPost, "/authentication/session", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))
	names := map[string]string{}
	for _, c := range w.Result().Cookies() {
		names[c.Name] = c.Value
	}
	assert.Equal(t, f.token, names[domain.CookieToken])
	assert.Equal(t, "CANDIDATE", names[domain.CookieUserRole])
}

func TestCreateSessionRejectsBadToken(t *testing.T) {
	f := newFixture(t)
	form := url.Values{"token": {"forged"}}
	req := httptest.NewRequest(http.MethodPost, "/authentication/session", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestCreateSessionIgnoresPostedRole(t *testing.T) {
	f := newFixture(t)
	claimless, err := auth.NewVerifier(testSecret, nil).Sign("cand2", "", time.Hour)
	require.NoError(t, err)
	form := url.Values{"token": {claimless}, "role": {"RECRUITER"}}
	req := httptest.NewRequest(http.MethodPost, "/authentication/session", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))
	names := map[string]string{}
	for _, c := range w.Result().Cookies() {
		names[c.Name] = c.Value
	}
	assert.Equal(t, "CANDIDATE", names[domain.CookieUserRole])
}
