package web

import (
	"net/url"

	"candidate-portal/internal/domain"
)

// page is the data every template receives.
type page struct {
	Title      string
	Session    *domain.Session
	Checklist  []domain.ChecklistItem
	Progress   int
	Completion *domain.ProfileCompletion
	Message    string
	Error      string
	Section    *sectionView
}

type fieldView struct {
	formField
	Value   string
	Checked bool
	Error   string
}

type sectionView struct {
	domain.OnboardingSection
	Fields    []fieldView
	Rows      [][]fieldView
	RowLabel  string
	RowErrors []string
}

// newSectionView lays out the form of section filled from values.
func newSectionView(section domain.OnboardingSection, values url.Values, fieldErrors map[string]string) *sectionView {
	layout := sectionLayouts[section.Key]
	view := &sectionView{OnboardingSection: section, RowLabel: layout.RowLabel}

	for _, f := range layout.Fields {
		v := values.Get(f.Name)
		view.Fields = append(view.Fields, fieldView{
			formField: f,
			Value:     v,
			Checked:   checked(v),
			Error:     fieldErrors[f.Name],
		})
	}

	if len(layout.RowFields) == 0 {
		return view
	}

	n := 0
	for _, f := range layout.RowFields {
		if l := len(values[f.Name]); l > n {
			n = l
		}
	}
	// One blank row to add another entry.
	if n < layout.MaxRows {
		n++
	}
	for i := 0; i < n; i++ {
		row := make([]fieldView, 0, len(layout.RowFields))
		for _, f := range layout.RowFields {
			var v string
			if vals := values[f.Name]; i < len(vals) {
				v = vals[i]
			}
			row = append(row, fieldView{formField: f, Value: v})
		}
		view.Rows = append(view.Rows, row)
	}

	if msg, ok := fieldErrors["entries"]; ok {
		view.RowErrors = append(view.RowErrors, msg)
	}
	for _, f := range layout.RowFields {
		if msg, ok := fieldErrors[f.Name]; ok {
			view.RowErrors = append(view.RowErrors, msg)
		}
	}
	return view
}
