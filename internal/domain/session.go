package domain

import (
	"context"
	"strings"
)

// Role is the account type carried by the session.
type Role string

const (
	RoleCandidate Role = "CANDIDATE"
	RoleRecruiter Role = "RECRUITER"
)

// ParseRole normalises a raw cookie or claim value. Unknown values yield "".
func ParseRole(raw string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleCandidate:
		return RoleCandidate
	case RoleRecruiter:
		return RoleRecruiter
	}
	return ""
}

// Session cookie names. Written by the login flow, read by the session provider only.
const (
	CookieUserRole = "user_role"
	CookieToken    = "token"
)

// Session is the authenticated identity of a request. It is built once by the
// session provider and never mutated afterwards.
type Session struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Token  string `json:"-"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

func (s *Session) IsCandidate() bool {
	return s != nil && s.Role == RoleCandidate
}

// WithSession stores the session plus the flat user id / role keys used by usecases.
func WithSession(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, KeySession, s)
	if s != nil {
		ctx = context.WithValue(ctx, KeyUserID, s.UserID)
		ctx = context.WithValue(ctx, KeyUserRole, string(s.Role))
	}
	return ctx
}

// SessionFromContext returns the request session or nil when none was attached.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(KeySession).(*Session)
	return s
}
