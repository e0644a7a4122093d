package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrUnknownSection = errors.New("unknown onboarding section")
	ErrNotFound       = errors.New("record not found")
)

// SectionKey identifies one onboarding section. It doubles as the key of
// ProfileCompletion.Sections.
type SectionKey string

const (
	SectionAccountIdentity     SectionKey = "account_identity"
	SectionPersonalSocial      SectionKey = "personal_social"
	SectionEmployment          SectionKey = "employment"
	SectionEducation           SectionKey = "education"
	SectionSkills              SectionKey = "skills"
	SectionLocationPreferences SectionKey = "location_preferences"
)

// ProfileCompletion is recomputed from persisted sections on every call.
type ProfileCompletion struct {
	TotalPercentage int                 `json:"total_percentage"`
	Sections        map[SectionKey]bool `json:"sections"`
}

// IsComplete reports the dashboard-unlock condition.
func (p *ProfileCompletion) IsComplete() bool {
	return p != nil && p.TotalPercentage >= 100
}

// UpdateResult mirrors the { success, message } contract of the section update endpoints.
type UpdateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ============================================================================
// Section payloads
// ============================================================================

type AccountIdentity struct {
	FirstName   string `json:"first_name" validate:"required,max=100,valid_name"`
	LastName    string `json:"last_name" validate:"required,max=100,valid_name"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"required,valid_phone"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

type PersonalSocial struct {
	Gender       string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER UNDISCLOSED"`
	Headline     string `json:"headline" validate:"required,max=120,no_emoji"`
	Bio          string `json:"bio" validate:"max=500,no_emoji"`
	LinkedInURL  string `json:"linkedin_url" validate:"omitempty,url,max=300"`
	GitHubURL    string `json:"github_url" validate:"omitempty,url,max=300"`
	PortfolioURL string `json:"portfolio_url" validate:"omitempty,url,max=300"`
}

type EmploymentEntry struct {
	CompanyName string `json:"company_name" validate:"required,max=150"`
	JobTitle    string `json:"job_title" validate:"required,max=150"`
	StartYear   int    `json:"start_year" validate:"required,min=1950,max_current_year"`
	EndYear     int    `json:"end_year,omitempty" validate:"omitempty,min=1950,max_current_year,gtefield=StartYear"`
	Description string `json:"description,omitempty" validate:"max=1000"`
}

type Employment struct {
	// Fresh graduates may submit without entries.
	HasExperience bool              `json:"has_experience"`
	Entries       []EmploymentEntry `json:"entries" validate:"required_if=HasExperience true,max=20,dive"`
}

type EducationEntry struct {
	Institution    string `json:"institution" validate:"required,max=150"`
	Degree         string `json:"degree" validate:"required,oneof=HIGH_SCHOOL DIPLOMA BACHELOR MASTER DOCTORATE OTHER"`
	FieldOfStudy   string `json:"field_of_study" validate:"max=150"`
	GraduationYear int    `json:"graduation_year" validate:"omitempty,min=1950,max_current_year"`
}

type Education struct {
	Entries []EducationEntry `json:"entries" validate:"required,min=1,max=10,dive"`
}

type Skills struct {
	Skills       []string `json:"skills" validate:"required,min=1,max=50,dive,required,max=50"`
	PrimarySkill string   `json:"primary_skill" validate:"omitempty,max=50"`
}

type LocationPreferences struct {
	CurrentCity        string   `json:"current_city" validate:"required,max=100"`
	PreferredLocations []string `json:"preferred_locations" validate:"max=10,dive,required,max=100"`
	WorkMode           string   `json:"work_mode" validate:"required,oneof=ONSITE REMOTE HYBRID"`
	WillingToRelocate  bool     `json:"willing_to_relocate"`
	ExpectedSalary     *int64   `json:"expected_salary,omitempty" validate:"omitempty,min=0"`
}

// NewSectionPayload returns a pointer to the empty payload struct of key.
func NewSectionPayload(key SectionKey) (any, error) {
	switch key {
	case SectionAccountIdentity:
		return &AccountIdentity{}, nil
	case SectionPersonalSocial:
		return &PersonalSocial{}, nil
	case SectionEmployment:
		return &Employment{}, nil
	case SectionEducation:
		return &Education{}, nil
	case SectionSkills:
		return &Skills{}, nil
	case SectionLocationPreferences:
		return &LocationPreferences{}, nil
	}
	return nil, ErrUnknownSection
}

// SectionRecord is the persisted form of one section.
type SectionRecord struct {
	UserID    string          `json:"user_id"`
	Key       SectionKey      `json:"section"`
	Payload   json.RawMessage `json:"payload"`
	Tags      []string        `json:"tags,omitempty"` // searchable list values (skills, preferred locations)
	Completed bool            `json:"completed"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ============================================================================
// Repository Interface
// ============================================================================

type ProfileRepository interface {
	// ListCompletedSections returns the keys of every section the user has completed.
	ListCompletedSections(ctx context.Context, userID string) ([]SectionKey, error)
	GetSection(ctx context.Context, userID string, key SectionKey) (*SectionRecord, error)
	SaveSection(ctx context.Context, rec *SectionRecord) error
}

// ============================================================================
// Usecase Interface
// ============================================================================

// CompletionFetcher is the only profile dependency of the access guard.
type CompletionFetcher interface {
	GetCompletion(ctx context.Context, userID string) (*ProfileCompletion, error)
}

type ProfileUsecase interface {
	CompletionFetcher

	GetSection(ctx context.Context, userID string, key SectionKey) (*SectionRecord, error)

	UpdateAccountIdentity(ctx context.Context, userID string, data *AccountIdentity) (*UpdateResult, error)
	UpdatePersonalSocial(ctx context.Context, userID string, data *PersonalSocial) (*UpdateResult, error)
	UpdateEmployment(ctx context.Context, userID string, data *Employment) (*UpdateResult, error)
	UpdateEducation(ctx context.Context, userID string, data *Education) (*UpdateResult, error)
	UpdateSkills(ctx context.Context, userID string, data *Skills) (*UpdateResult, error)
	UpdateLocationPreferences(ctx context.Context, userID string, data *LocationPreferences) (*UpdateResult, error)
}
