package web

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"candidate-portal/internal/domain"
)

// formField describes one input of a section form.
type formField struct {
	Name    string
	Label   string
	Type    string // text, email, tel, date, url, number, textarea, select, checkbox, list
	Options []string
}

// sectionLayout is the input layout of one section. RowFields repeat once per
// entry and are posted as parallel arrays.
type sectionLayout struct {
	Fields    []formField
	RowFields []formField
	RowLabel  string
	MaxRows   int
}

var sectionLayouts = map[domain.SectionKey]sectionLayout{
	domain.SectionAccountIdentity: {Fields: []formField{
		{Name: "first_name", Label: "First name", Type: "text"},
		{Name: "last_name", Label: "Last name", Type: "text"},
		{Name: "email", Label: "Email", Type: "email"},
		{Name: "phone", Label: "Phone number", Type: "tel"},
		{Name: "date_of_birth", Label: "Date of birth", Type: "date"},
	}},
	domain.SectionPersonalSocial: {Fields: []formField{
		{Name: "gender", Label: "Gender", Type: "select", Options: []string{"MALE", "FEMALE", "OTHER", "UNDISCLOSED"}},
		{Name: "headline", Label: "Headline", Type: "text"},
		{Name: "bio", Label: "Bio", Type: "textarea"},
		{Name: "linkedin_url", Label: "LinkedIn URL", Type: "url"},
		{Name: "github_url", Label: "GitHub URL", Type: "url"},
		{Name: "portfolio_url", Label: "Portfolio URL", Type: "url"},
	}},
	domain.SectionEmployment: {
		Fields: []formField{
			{Name: "has_experience", Label: "I have work experience", Type: "checkbox"},
		},
		RowFields: []formField{
			{Name: "company_name", Label: "Company name", Type: "text"},
			{Name: "job_title", Label: "Job title", Type: "text"},
			{Name: "start_year", Label: "Start year", Type: "number"},
			{Name: "end_year", Label: "End year", Type: "number"},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		RowLabel: "Position",
		MaxRows:  20,
	},
	domain.SectionEducation: {
		RowFields: []formField{
			{Name: "institution", Label: "Institution", Type: "text"},
			{Name: "degree", Label: "Degree", Type: "select", Options: []string{"HIGH_SCHOOL", "DIPLOMA", "BACHELOR", "MASTER", "DOCTORATE", "OTHER"}},
			{Name: "field_of_study", Label: "Field of study", Type: "text"},
			{Name: "graduation_year", Label: "Graduation year", Type: "number"},
		},
		RowLabel: "School",
		MaxRows:  10,
	},
	domain.SectionSkills: {Fields: []formField{
		{Name: "skills", Label: "Skills (comma separated)", Type: "list"},
		{Name: "primary_skill", Label: "Primary skill", Type: "text"},
	}},
	domain.SectionLocationPreferences: {Fields: []formField{
		{Name: "current_city", Label: "Current city", Type: "text"},
		{Name: "preferred_locations", Label: "Preferred locations (comma separated)", Type: "list"},
		{Name: "work_mode", Label: "Work mode", Type: "select", Options: []string{"ONSITE", "REMOTE", "HYBRID"}},
		{Name: "willing_to_relocate", Label: "Willing to relocate", Type: "checkbox"},
		{Name: "expected_salary", Label: "Expected monthly salary", Type: "number"},
	}},
}

// decodeSection converts posted form values into the typed payload of key.
// Blank repeated rows are dropped; unparsable numbers become zero and are
// reported by validation.
func decodeSection(key domain.SectionKey, form url.Values) any {
	switch key {
	case domain.SectionAccountIdentity:
		return &domain.AccountIdentity{
			FirstName:   form.Get("first_name"),
			LastName:    form.Get("last_name"),
			Email:       form.Get("email"),
			Phone:       form.Get("phone"),
			DateOfBirth: form.Get("date_of_birth"),
		}
	case domain.SectionPersonalSocial:
		return &domain.PersonalSocial{
			Gender:       form.Get("gender"),
			Headline:     strings.TrimSpace(form.Get("headline")),
			Bio:          strings.TrimSpace(form.Get("bio")),
			LinkedInURL:  strings.TrimSpace(form.Get("linkedin_url")),
			GitHubURL:    strings.TrimSpace(form.Get("github_url")),
			PortfolioURL: strings.TrimSpace(form.Get("portfolio_url")),
		}
	case domain.SectionEmployment:
		out := &domain.Employment{HasExperience: checked(form.Get("has_experience"))}
		for _, row := range rows(form, sectionLayouts[key].RowFields) {
			out.Entries = append(out.Entries, domain.EmploymentEntry{
				CompanyName: row["company_name"],
				JobTitle:    row["job_title"],
				StartYear:   atoi(row["start_year"]),
				EndYear:     atoi(row["end_year"]),
				Description: row["description"],
			})
		}
		return out
	case domain.SectionEducation:
		out := &domain.Education{}
		for _, row := range rows(form, sectionLayouts[key].RowFields) {
			out.Entries = append(out.Entries, domain.EducationEntry{
				Institution:    row["institution"],
				Degree:         row["degree"],
				FieldOfStudy:   row["field_of_study"],
				GraduationYear: atoi(row["graduation_year"]),
			})
		}
		return out
	case domain.SectionSkills:
		return &domain.Skills{
			Skills:       splitList(form.Get("skills")),
			PrimarySkill: strings.TrimSpace(form.Get("primary_skill")),
		}
	case domain.SectionLocationPreferences:
		out := &domain.LocationPreferences{
			CurrentCity:        strings.TrimSpace(form.Get("current_city")),
			PreferredLocations: splitList(form.Get("preferred_locations")),
			WorkMode:           form.Get("work_mode"),
			WillingToRelocate:  checked(form.Get("willing_to_relocate")),
		}
		if raw := strings.TrimSpace(form.Get("expected_salary")); raw != "" {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				out.ExpectedSalary = &n
			}
		}
		return out
	}
	return nil
}

// rows zips the parallel arrays of rowFields, skipping rows left entirely blank.
func rows(form url.Values, rowFields []formField) []map[string]string {
	n := 0
	for _, f := range rowFields {
		if l := len(form[f.Name]); l > n {
			n = l
		}
	}

	var out []map[string]string
	for i := 0; i < n; i++ {
		row := make(map[string]string, len(rowFields))
		blank := true
		for _, f := range rowFields {
			var v string
			if vals := form[f.Name]; i < len(vals) {
				v = strings.TrimSpace(vals[i])
			}
			if v != "" {
				blank = false
			}
			row[f.Name] = v
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

// recordValues flattens a saved section payload into form values.
func recordValues(key domain.SectionKey, payload json.RawMessage) url.Values {
	out := url.Values{}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return out
	}

	layout := sectionLayouts[key]
	for _, f := range layout.Fields {
		v, ok := raw[f.Name]
		if !ok {
			continue
		}
		if list, isList := v.([]any); isList {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, scalar(item))
			}
			out.Set(f.Name, strings.Join(parts, ", "))
			continue
		}
		out.Set(f.Name, scalar(v))
	}

	if entries, ok := raw["entries"].([]any); ok {
		for _, e := range entries {
			entry, _ := e.(map[string]any)
			for _, f := range layout.RowFields {
				out.Add(f.Name, scalar(entry[f.Name]))
			}
		}
	}
	return out
}

func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func checked(v string) bool {
	return v == "on" || v == "true" || v == "1"
}

func atoi(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}
