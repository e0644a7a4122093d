package usecase

import (
	"context"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/logger"
	"candidate-portal/pkg/supersede"
)

// GuardConfig holds the access guard policy.
type GuardConfig struct {
	// FailOpen renders protected content when the completion fetch fails.
	// When false, restricted paths are redirected to the profile instead.
	FailOpen     bool
	FetchTimeout time.Duration
}

type accessGuard struct {
	completion domain.CompletionFetcher
	tracker    *supersede.Tracker
	cfg        GuardConfig
}

func NewAccessGuard(completion domain.CompletionFetcher, tracker *supersede.Tracker, cfg GuardConfig) domain.AccessGuard {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}
	return &accessGuard{
		completion: completion,
		tracker:    tracker,
		cfg:        cfg,
	}
}

func (g *accessGuard) Decide(ctx context.Context, session *domain.Session, path string) (domain.GuardDecision, error) {
	// Only candidates are gated; nobody else costs a fetch.
	if !session.IsCandidate() {
		return domain.GuardDecision{State: domain.GuardAllowed}, nil
	}

	fetchCtx := ctx
	var ticket *supersede.Ticket
	if scope := domain.NavigationScopeFromContext(ctx); scope != "" {
		fetchCtx, ticket = g.tracker.Begin(ctx, trackingKey(session, scope))
		defer ticket.Done()
	}
	fetchCtx, cancel := context.WithTimeout(fetchCtx, g.cfg.FetchTimeout)
	defer cancel()

	completion, err := g.completion.GetCompletion(fetchCtx, session.UserID)

	// A newer navigation in the same scope owns the outcome now.
	if ticket != nil && !ticket.Current() {
		return domain.GuardDecision{State: domain.GuardLoading}, domain.ErrNavigationSuperseded
	}
	if ctx.Err() != nil {
		return domain.GuardDecision{State: domain.GuardLoading}, ctx.Err()
	}

	if err != nil {
		logger.Log.Error("Access guard: completion fetch failed",
			"user_id", session.UserID, "path", path, "fail_open", g.cfg.FailOpen, "error", err)
		if g.cfg.FailOpen || !domain.IsRestrictedPath(path) {
			return domain.GuardDecision{State: domain.GuardAllowed, FetchErr: err}, nil
		}
		return domain.GuardDecision{State: domain.GuardRedirecting, RedirectTo: domain.RouteProfile, FetchErr: err}, nil
	}

	if completion.IsComplete() || !domain.IsRestrictedPath(path) {
		return domain.GuardDecision{State: domain.GuardAllowed, Completion: completion}, nil
	}

	logger.Log.Info("Access guard: incomplete profile redirected",
		"user_id", session.UserID, "path", path, "total_percentage", completion.TotalPercentage)
	return domain.GuardDecision{
		State:      domain.GuardRedirecting,
		RedirectTo: domain.RouteProfile,
		Completion: completion,
	}, nil
}

// trackingKey scopes navigation generations to one tab of one browser session.
func trackingKey(s *domain.Session, scope string) string {
	if s.Token != "" {
		return "tok:" + s.Token + "|nav:" + scope
	}
	return "usr:" + s.UserID + "|nav:" + scope
}
