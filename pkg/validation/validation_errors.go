package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown next to form inputs
var FieldLabels = map[string]string{
	// Account & Identity
	"FirstName":   "First name",
	"LastName":    "Last name",
	"Email":       "Email",
	"Phone":       "Phone number",
	"DateOfBirth": "Date of birth",

	// Personal & Social
	"Gender":       "Gender",
	"Headline":     "Headline",
	"Bio":          "Bio",
	"LinkedInURL":  "LinkedIn URL",
	"GitHubURL":    "GitHub URL",
	"PortfolioURL": "Portfolio URL",

	// Employment
	"Entries":     "Entries",
	"CompanyName": "Company name",
	"JobTitle":    "Job title",
	"StartYear":   "Start year",
	"EndYear":     "End year",
	"Description": "Description",

	// Education
	"Institution":    "Institution",
	"Degree":         "Degree",
	"FieldOfStudy":   "Field of study",
	"GraduationYear": "Graduation year",

	// Skills
	"Skills":       "Skills",
	"PrimarySkill": "Primary skill",

	// Location & Work Preferences
	"CurrentCity":        "Current city",
	"PreferredLocations": "Preferred locations",
	"WorkMode":           "Work mode",
	"ExpectedSalary":     "Expected salary",

	// Waitlist
	"Name":         "Name",
	"RoleInterest": "I am a",
	"Source":       "Source",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// FieldErrors keys each message by the JSON field name, for inline form errors.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}
	for _, e := range validationErrors {
		if _, seen := out[e.Field()]; !seen {
			out[e.Field()] = formatSingleError(e)
		}
	}
	return out
}

func formatSingleError(e validator.FieldError) string {
	fieldName := e.StructField()
	label := getFieldLabel(fieldName)
	param := e.Param()

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s: add at least %s", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s: at most %s entries", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email address", label)
	case "url":
		return fmt.Sprintf("%s: invalid URL", label)
	case "datetime":
		return fmt.Sprintf("%s: use the YYYY-MM-DD format", label)
	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and common punctuation (. ' - /) are allowed", label)
	case "valid_phone":
		return fmt.Sprintf("%s: invalid phone number (7-15 digits, optional +)", label)
	case "no_emoji":
		return fmt.Sprintf("%s: emoji and special symbols are not allowed", label)
	case "max_current_year":
		return fmt.Sprintf("%s: cannot be later than this year", label)
	case "gtefield":
		return fmt.Sprintf("%s: cannot be before %s", label, strings.ToLower(getFieldLabel(param)))
	default:
		return fmt.Sprintf("%s: is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
