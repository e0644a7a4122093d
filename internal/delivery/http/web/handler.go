// Package web serves the server-rendered page area: sign-in, the onboarding
// pages and the guarded dashboard, assessments and jobs pages.
package web

import (
	"net/http"
	"net/url"
	"time"

	"candidate-portal/internal/delivery/http/middleware"
	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
	"candidate-portal/pkg/auth"
	"candidate-portal/pkg/logger"
	"candidate-portal/pkg/security"

	"github.com/gin-gonic/gin"
)

type Config struct {
	DraftTTL      time.Duration
	SecureCookies bool
}

type Handler struct {
	coordinator domain.OnboardingCoordinator
	verifier    *auth.Verifier
	cfg         Config
}

func NewHandler(coordinator domain.OnboardingCoordinator, verifier *auth.Verifier, cfg Config) *Handler {
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 7 * 24 * time.Hour
	}
	return &Handler{coordinator: coordinator, verifier: verifier, cfg: cfg}
}

// Register mounts the page routes. guard runs after the session check on every
// page except sign-in.
func Register(r *gin.Engine, h *Handler, guard gin.HandlerFunc) {
	r.SetHTMLTemplate(templates)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, domain.RouteProfile) })

	authentication := r.Group(domain.RouteAuthentication)
	{
		authentication.GET("", h.SignIn)
		authentication.POST("/session", h.CreateSession)
		authentication.POST("/logout", h.Logout)
	}

	pages := r.Group("", middleware.RequirePageSession(), guard)
	{
		pages.GET(domain.RouteProfile, h.Profile)
		pages.GET("/profile/:section", h.SectionForm)
		pages.POST("/profile/:section", h.SubmitSection)
		pages.GET(domain.RouteDashboard, h.Dashboard)
		pages.GET("/assessments", h.Placeholder("Assessments"))
		pages.GET("/assessments/*path", h.Placeholder("Assessments"))
		pages.GET("/jobs", h.Placeholder("Jobs"))
		pages.GET("/jobs/*path", h.Placeholder("Jobs"))
	}
}

// ============================================================================
// Authentication
// ============================================================================

func (h *Handler) SignIn(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session.IsAuthenticated() {
		c.Redirect(http.StatusFound, homeRoute(session.Role))
		return
	}
	c.HTML(http.StatusOK, "authentication.tmpl", page{Title: "Sign in"})
}

// CreateSession receives the identity provider's token and stores the session cookies.
func (h *Handler) CreateSession(c *gin.Context) {
	token := c.PostForm("token")
	claims, err := h.verifier.Verify(token)
	if err != nil {
		logger.Log.Info("Sign-in rejected", "ip", c.ClientIP(), "error", err)
		c.HTML(http.StatusUnauthorized, "authentication.tmpl", page{Title: "Sign in", Error: "Your sign-in link is invalid or has expired."})
		return
	}

	// Tokens without a role claim sign in as candidates.
	role := domain.ParseRole(claims.Role)
	if role == "" {
		role = domain.RoleCandidate
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	security.Default().LogSessionCreated(c.Request.Context(), claims.Subject, string(role), c.ClientIP(), c.Request.UserAgent(), c.GetString("RequestID"))
	middleware.SetSessionCookies(c, token, role, ttl, h.cfg.SecureCookies)
	c.Redirect(http.StatusSeeOther, homeRoute(role))
}

func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearSessionCookies(c, h.cfg.SecureCookies)
	c.Redirect(http.StatusSeeOther, domain.RouteAuthentication)
}

func homeRoute(role domain.Role) string {
	if role == domain.RoleCandidate {
		return domain.RouteProfile
	}
	return domain.RouteDashboard
}

// ============================================================================
// Onboarding
// ============================================================================

func (h *Handler) Profile(c *gin.Context) {
	session := middleware.CurrentSession(c)

	overview, err := h.coordinator.Overview(c.Request.Context(), session.UserID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if overview.RedirectTo != "" {
		c.Redirect(http.StatusFound, overview.RedirectTo)
		return
	}

	data := page{
		Title:      "Complete your profile",
		Session:    session,
		Checklist:  overview.Checklist,
		Progress:   overview.Progress,
		Completion: overview.Completion,
	}
	if overview.Completion == nil {
		data.Error = "We couldn't load your progress. You can still fill in any section."
	}
	c.HTML(http.StatusOK, "profile.tmpl", data)
}

func (h *Handler) SectionForm(c *gin.Context) {
	section, ok := h.sectionFromPath(c)
	if !ok {
		return
	}
	session := middleware.CurrentSession(c)

	form, err := h.coordinator.SectionForm(c.Request.Context(), session.UserID, section.Key)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if form.RedirectTo != "" {
		c.Redirect(http.StatusFound, form.RedirectTo)
		return
	}

	// Draft first, then the browser copy of it unless the section was saved
	// since, then the saved section.
	var values url.Values
	if form.Draft != nil {
		values = form.Draft.Fields
	} else if draft, ok := readDraftCookie(c, section.Key); ok && !draft.staleFor(form.Record) {
		values = draft.Fields
	} else {
		if ok {
			clearDraftCookie(c, section.Key, h.cfg.SecureCookies)
		}
		if form.Record != nil {
			values = recordValues(section.Key, form.Record.Payload)
		}
	}

	data := h.sectionPage(session, form.Completion, newSectionView(section, values, nil))
	if c.Query("draft") == "saved" {
		data.Message = "Draft saved."
	}
	c.HTML(http.StatusOK, "section.tmpl", data)
}

// SubmitSection saves the section and moves to its fixed successor. A failed
// submit re-renders the form with the entered values and keeps them as a draft.
func (h *Handler) SubmitSection(c *gin.Context) {
	section, ok := h.sectionFromPath(c)
	if !ok {
		return
	}
	session := middleware.CurrentSession(c)
	ctx := c.Request.Context()

	if err := c.Request.ParseForm(); err != nil {
		h.renderError(c, apperror.BadRequest("Invalid form submission"))
		return
	}
	fields := url.Values{}
	for name, vals := range c.Request.PostForm {
		if name != "action" {
			fields[name] = vals
		}
	}

	if c.PostForm("action") == "draft" {
		if _, err := h.coordinator.SaveDraft(ctx, session.UserID, section.Key, fields); err != nil {
			h.renderError(c, err)
			return
		}
		writeDraftCookie(c, section.Key, fields, time.Now(), h.cfg.DraftTTL, h.cfg.SecureCookies)
		c.Redirect(http.StatusSeeOther, section.Route+"?draft=saved")
		return
	}

	result, err := h.coordinator.SubmitSection(ctx, session.UserID, section.Key, decodeSection(section.Key, fields))
	if err != nil {
		h.renderError(c, err)
		return
	}

	if result.Success {
		clearDraftCookie(c, section.Key, h.cfg.SecureCookies)
		c.Redirect(http.StatusSeeOther, result.NextRoute)
		return
	}

	if _, err := h.coordinator.SaveDraft(ctx, session.UserID, section.Key, fields); err != nil {
		logger.Log.Warn("Onboarding page: draft not kept", "user_id", session.UserID, "section", section.Key, "error", err)
	}
	writeDraftCookie(c, section.Key, fields, time.Now(), h.cfg.DraftTTL, h.cfg.SecureCookies)

	data := h.sectionPage(session, nil, newSectionView(section, fields, result.FieldErrors))
	data.Error = result.Message
	c.HTML(http.StatusUnprocessableEntity, "section.tmpl", data)
}

func (h *Handler) sectionFromPath(c *gin.Context) (domain.OnboardingSection, bool) {
	section, ok := domain.SectionBySlug(c.Param("section"))
	if !ok {
		h.renderError(c, apperror.NotFound("Unknown profile section"))
	}
	return section, ok
}

func (h *Handler) sectionPage(session *domain.Session, completion *domain.ProfileCompletion, view *sectionView) page {
	data := page{
		Title:      view.Title,
		Session:    session,
		Checklist:  domain.BuildChecklist(completion),
		Completion: completion,
		Section:    view,
	}
	if completion != nil {
		data.Progress = completion.TotalPercentage
	}
	return data
}

// ============================================================================
// Guarded area
// ============================================================================

func (h *Handler) Dashboard(c *gin.Context) {
	session := middleware.CurrentSession(c)
	data := page{Title: "Dashboard", Session: session}

	if v, ok := c.Get(middleware.GuardDecisionKey); ok {
		decision := v.(domain.GuardDecision)
		data.Completion = decision.Completion
		if decision.Completion != nil {
			data.Progress = decision.Completion.TotalPercentage
		}
		if decision.FetchErr != nil {
			data.Error = "We couldn't check your profile status right now."
		}
	}
	c.HTML(http.StatusOK, "dashboard.tmpl", data)
}

// Placeholder renders the guarded assessments and jobs areas.
func (h *Handler) Placeholder(title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "placeholder.tmpl", page{Title: title, Session: middleware.CurrentSession(c)})
	}
}

func (h *Handler) renderError(c *gin.Context, err error) {
	code := apperror.StatusCode(err)
	if code == http.StatusUnauthorized {
		c.Redirect(http.StatusFound, domain.RouteAuthentication)
		return
	}

	message := "Something went wrong. Please try again."
	if code < http.StatusInternalServerError {
		message = err.Error()
	} else {
		logger.Log.Error("Page request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.HTML(code, "error.tmpl", page{Title: http.StatusText(code), Session: middleware.CurrentSession(c), Error: message})
}
