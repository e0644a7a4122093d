package v1

import (
	"net/http"

	"candidate-portal/internal/delivery/http/middleware"
	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	coordinator domain.OnboardingCoordinator
}

func NewOnboardingHandler(protected *gin.RouterGroup, coordinator domain.OnboardingCoordinator) {
	handler := &OnboardingHandler{coordinator: coordinator}

	onboarding := protected.Group("/onboarding")
	{
		onboarding.GET("", handler.GetOverview)
		onboarding.GET("/sections/:section", handler.GetSectionForm)
		onboarding.POST("/sections/:section", handler.SubmitSection)
	}

	drafts := protected.Group("/profile/drafts")
	{
		drafts.GET("/:section", handler.GetDraft)
		drafts.PUT("/:section", handler.SaveDraft)
		drafts.DELETE("/:section", handler.DiscardDraft)
	}
}

type SaveDraftRequest struct {
	Fields map[string][]string `json:"fields" binding:"required"`
}

// GetOverview godoc
// @Summary      Get onboarding overview
// @Description  Checklist, progress and dashboard unlock state. redirect_to is set once the profile is complete.
// @Tags         onboarding
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.OnboardingOverview}
// @Failure      401  {object}  response.Response
// @Router       /onboarding [get]
// @Security     BearerAuth
func (h *OnboardingHandler) GetOverview(c *gin.Context) {
	overview, err := h.coordinator.Overview(c.Request.Context(), middleware.CurrentSession(c).UserID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Onboarding overview retrieved", overview)
}

// GetSectionForm godoc
// @Summary      Get section form state
// @Description  Section metadata, saved values and draft
// @Tags         onboarding
// @Produce      json
// @Param        section  path      string  true  "Section key or slug"
// @Success      200      {object}  response.Response{data=domain.SectionForm}
// @Failure      404      {object}  response.Response
// @Router       /onboarding/sections/{section} [get]
// @Security     BearerAuth
func (h *OnboardingHandler) GetSectionForm(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}

	form, err := h.coordinator.SectionForm(c.Request.Context(), middleware.CurrentSession(c).UserID, key)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Section form retrieved", form)
}

// SubmitSection godoc
// @Summary      Submit an onboarding section
// @Description  Saves the section and returns the next route of the fixed onboarding sequence
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        section  path      string  true  "Section key or slug"
// @Success      200      {object}  response.Response{data=domain.SectionSubmitResult}
// @Failure      400      {object}  response.Response{error=domain.SectionSubmitResult}
// @Router       /onboarding/sections/{section} [post]
// @Security     BearerAuth
func (h *OnboardingHandler) SubmitSection(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}
	payload, _ := domain.NewSectionPayload(key)
	if err := c.ShouldBindJSON(payload); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	result, err := h.coordinator.SubmitSection(c.Request.Context(), middleware.CurrentSession(c).UserID, key, payload)
	if err != nil {
		c.Error(err)
		return
	}
	if !result.Success {
		response.Error(c, http.StatusBadRequest, result.Message, result)
		return
	}

	response.Success(c, http.StatusOK, result.Message, result)
}

// GetDraft godoc
// @Summary      Get a section draft
// @Tags         onboarding
// @Produce      json
// @Param        section  path      string  true  "Section key or slug"
// @Success      200      {object}  response.Response{data=domain.DraftFormState}
// @Failure      404      {object}  response.Response
// @Router       /profile/drafts/{section} [get]
// @Security     BearerAuth
func (h *OnboardingHandler) GetDraft(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}

	draft, err := h.coordinator.GetDraft(c.Request.Context(), middleware.CurrentSession(c).UserID, key)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Draft retrieved", draft)
}

// SaveDraft godoc
// @Summary      Save a section draft
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        section  path      string            true  "Section key or slug"
// @Param        request  body      SaveDraftRequest  true  "Unsubmitted form fields"
// @Success      200      {object}  response.Response{data=domain.DraftFormState}
// @Failure      400      {object}  response.Response
// @Router       /profile/drafts/{section} [put]
// @Security     BearerAuth
func (h *OnboardingHandler) SaveDraft(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("fields is required"))
		return
	}

	draft, err := h.coordinator.SaveDraft(c.Request.Context(), middleware.CurrentSession(c).UserID, key, req.Fields)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Draft saved", draft)
}

// DiscardDraft godoc
// @Summary      Discard a section draft
// @Tags         onboarding
// @Produce      json
// @Param        section  path      string  true  "Section key or slug"
// @Success      200      {object}  response.Response
// @Router       /profile/drafts/{section} [delete]
// @Security     BearerAuth
func (h *OnboardingHandler) DiscardDraft(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}

	if err := h.coordinator.DiscardDraft(c.Request.Context(), middleware.CurrentSession(c).UserID, key); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Draft discarded", nil)
}
