package domain

import (
	"context"
	"errors"
	"strings"
)

// ErrNavigationSuperseded is returned when a newer navigation in the same
// navigation scope started before this check finished.
var ErrNavigationSuperseded = errors.New("navigation superseded")

// GuardState is the per-request state of the access guard.
type GuardState string

const (
	GuardLoading     GuardState = "LOADING"
	GuardAllowed     GuardState = "ALLOWED"
	GuardRedirecting GuardState = "REDIRECTING"
)

// restrictedPrefixes are off limits to candidates whose profile is incomplete.
var restrictedPrefixes = []string{"/dashboard", "/assessments", "/jobs"}

// IsRestrictedPath reports whether path starts with one of the restricted prefixes.
func IsRestrictedPath(path string) bool {
	for _, p := range restrictedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// GuardDecision is the outcome of one guarded navigation.
type GuardDecision struct {
	State      GuardState         `json:"state"`
	RedirectTo string             `json:"redirect_to,omitempty"`
	Completion *ProfileCompletion `json:"profile_completion,omitempty"`
	// FetchErr is set when the completion fetch failed and the failure policy decided.
	FetchErr error `json:"-"`
}

func (d GuardDecision) Allowed() bool {
	return d.State == GuardAllowed
}

// WithNavigationScope tags ctx with the client navigation stream (one browser
// tab) the request belongs to. Only requests sharing a scope supersede each other.
func WithNavigationScope(ctx context.Context, scope string) context.Context {
	if scope == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyNavigationScope, scope)
}

// NavigationScopeFromContext returns the navigation scope or "" when untagged.
func NavigationScopeFromContext(ctx context.Context) string {
	scope, _ := ctx.Value(KeyNavigationScope).(string)
	return scope
}

type AccessGuard interface {
	// Decide never returns a LOADING decision. The only error is ErrNavigationSuperseded,
	// possible only when ctx carries a navigation scope, or the context error when
	// the caller gave up.
	Decide(ctx context.Context, session *Session, path string) (GuardDecision, error)
}
