package domain

import (
	"context"
	"time"
)

// Page routes of the authenticated area.
const (
	RouteProfile        = "/profile"
	RouteDashboard      = "/dashboard"
	RouteAuthentication = "/authentication"
)

// OnboardingSection is one entry of the compiled-in onboarding sequence.
type OnboardingSection struct {
	Key   SectionKey `json:"key"`
	Title string     `json:"title"`
	Slug  string     `json:"slug"`
	Route string     `json:"route"`
	// Next is the route pushed after a successful submit. It is static and does
	// not depend on which sections are already complete.
	Next string `json:"next"`
}

var onboardingSections = []OnboardingSection{
	{Key: SectionAccountIdentity, Title: "Account & Identity", Slug: "account-identity", Route: "/profile/account-identity", Next: "/profile/personal-social"},
	{Key: SectionPersonalSocial, Title: "Personal & Social", Slug: "personal-social", Route: "/profile/personal-social", Next: "/profile/employment"},
	{Key: SectionEmployment, Title: "Employment", Slug: "employment", Route: "/profile/employment", Next: "/profile/education"},
	{Key: SectionEducation, Title: "Education", Slug: "education", Route: "/profile/education", Next: "/profile/skills"},
	{Key: SectionSkills, Title: "Skills", Slug: "skills", Route: "/profile/skills", Next: "/profile/location-preferences"},
	{Key: SectionLocationPreferences, Title: "Location & Work Preferences", Slug: "location-preferences", Route: "/profile/location-preferences", Next: RouteProfile},
}

// OnboardingSections returns a copy of the fixed section list, in order.
func OnboardingSections() []OnboardingSection {
	out := make([]OnboardingSection, len(onboardingSections))
	copy(out, onboardingSections)
	return out
}

// SectionByKey looks up a section by its completion key.
func SectionByKey(key SectionKey) (OnboardingSection, bool) {
	for _, s := range onboardingSections {
		if s.Key == key {
			return s, true
		}
	}
	return OnboardingSection{}, false
}

// SectionBySlug looks up a section by its URL segment.
func SectionBySlug(slug string) (OnboardingSection, bool) {
	for _, s := range onboardingSections {
		if s.Slug == slug {
			return s, true
		}
	}
	return OnboardingSection{}, false
}

// ParseSectionKey accepts either the completion key or the URL slug.
func ParseSectionKey(raw string) (SectionKey, error) {
	if s, ok := SectionByKey(SectionKey(raw)); ok {
		return s.Key, nil
	}
	if s, ok := SectionBySlug(raw); ok {
		return s.Key, nil
	}
	return "", ErrUnknownSection
}

// ============================================================================
// Coordinator DTOs
// ============================================================================

type ChecklistItem struct {
	Key      SectionKey `json:"key"`
	Title    string     `json:"title"`
	Route    string     `json:"route"`
	Complete bool       `json:"complete"`
}

// BuildChecklist lists every section in order. A nil completion marks all incomplete.
func BuildChecklist(completion *ProfileCompletion) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(onboardingSections))
	for _, s := range onboardingSections {
		items = append(items, ChecklistItem{
			Key:      s.Key,
			Title:    s.Title,
			Route:    s.Route,
			Complete: completion != nil && completion.Sections[s.Key],
		})
	}
	return items
}

// OnboardingOverview backs the sidebar checklist and progress indicator.
type OnboardingOverview struct {
	Checklist         []ChecklistItem    `json:"checklist"`
	Completion        *ProfileCompletion `json:"profile_completion"` // nil when the fetch failed
	Progress          int                `json:"progress"`
	DashboardUnlocked bool               `json:"dashboard_unlocked"`
	RedirectTo        string             `json:"redirect_to,omitempty"`
}

// DraftFormState holds un-submitted field values of one section form.
type DraftFormState struct {
	UserID    string              `json:"user_id"`
	Section   SectionKey          `json:"section"`
	Fields    map[string][]string `json:"fields"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// SectionForm is what a section edit page needs to render.
type SectionForm struct {
	Section    OnboardingSection  `json:"section"`
	Record     *SectionRecord     `json:"record,omitempty"`
	Draft      *DraftFormState    `json:"draft,omitempty"`
	Completion *ProfileCompletion `json:"profile_completion,omitempty"`
	RedirectTo string             `json:"redirect_to,omitempty"`
}

// SectionSubmitResult reports a submit attempt. NextRoute is empty on failure.
type SectionSubmitResult struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	NextRoute   string            `json:"next_route,omitempty"`
}

// ============================================================================
// Repository Interface
// ============================================================================

type DraftRepository interface {
	Get(ctx context.Context, userID string, section SectionKey) (*DraftFormState, error)
	Save(ctx context.Context, draft *DraftFormState, ttl time.Duration) error
	Delete(ctx context.Context, userID string, section SectionKey) error
}

// ============================================================================
// Usecase Interface
// ============================================================================

type OnboardingCoordinator interface {
	Overview(ctx context.Context, userID string) (*OnboardingOverview, error)
	SectionForm(ctx context.Context, userID string, key SectionKey) (*SectionForm, error)
	// SubmitSection expects the typed payload of the section, e.g. *Education.
	SubmitSection(ctx context.Context, userID string, key SectionKey, payload any) (*SectionSubmitResult, error)

	GetDraft(ctx context.Context, userID string, key SectionKey) (*DraftFormState, error)
	SaveDraft(ctx context.Context, userID string, key SectionKey, fields map[string][]string) (*DraftFormState, error)
	DiscardDraft(ctx context.Context, userID string, key SectionKey) error
}
