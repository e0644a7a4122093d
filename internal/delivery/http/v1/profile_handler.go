package v1

import (
	"net/http"

	"candidate-portal/internal/delivery/http/middleware"
	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/domain"
	"candidate-portal/internal/usecase"
	"candidate-portal/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profile := protected.Group("/profile")
	{
		profile.GET("/completion", handler.GetCompletion)
		profile.GET("/sections/:section", handler.GetSection)
		profile.PUT("/sections/:section", handler.UpdateSection)
	}
}

// sectionParam resolves the :section path segment (key or slug).
func sectionParam(c *gin.Context) (domain.SectionKey, bool) {
	key, err := domain.ParseSectionKey(c.Param("section"))
	if err != nil {
		c.Error(apperror.NotFound("Unknown profile section"))
		return "", false
	}
	return key, true
}

// GetCompletion godoc
// @Summary      Get profile completion
// @Description  Percentage and per-section completion of the current candidate's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ProfileCompletion}
// @Failure      401  {object}  response.Response
// @Router       /profile/completion [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetCompletion(c *gin.Context) {
	session := middleware.CurrentSession(c)

	completion, err := h.profileUC.GetCompletion(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile completion retrieved", completion)
}

// GetSection godoc
// @Summary      Get a profile section
// @Tags         profile
// @Produce      json
// @Param        section  path      string  true  "Section key or slug"
// @Success      200      {object}  response.Response{data=domain.SectionRecord}
// @Failure      404      {object}  response.Response
// @Router       /profile/sections/{section} [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetSection(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}

	rec, err := h.profileUC.GetSection(c.Request.Context(), middleware.CurrentSession(c).UserID, key)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Section retrieved", rec)
}

// UpdateSection godoc
// @Summary      Update a profile section
// @Description  Saves one of the six onboarding sections. The body is the section's payload.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        section  path      string  true  "Section key or slug"
// @Success      200      {object}  response.Response{data=domain.UpdateResult}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /profile/sections/{section} [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateSection(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}
	payload, _ := domain.NewSectionPayload(key)
	if err := c.ShouldBindJSON(payload); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	res, err := usecase.ApplySectionUpdate(c.Request.Context(), h.profileUC, middleware.CurrentSession(c).UserID, key, payload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, res.Message, res)
}
