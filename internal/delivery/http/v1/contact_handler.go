package v1

import (
	"net/http"

	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ContactHandler takes questions from the landing page into the support inbox.
type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler mounts the landing page enquiry form. It shares the per-IP
// budget of the waitlist signup, the other anonymous landing form.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, landingLimit gin.HandlerFunc) {
	handler := &ContactHandler{contactUC: contactUC}
	public.POST("/contact", landingLimit, handler.SendEnquiry)
}

// SendEnquiry godoc
// @Summary      Send a landing page enquiry
// @Description  Forwards a question from a visitor who has not signed in (job seekers, employers, job fair partners) to the support inbox. Shares the waitlist rate limit.
// @Tags         landing
// @Accept       json
// @Produce      json
// @Param        enquiry  body      domain.ContactRequest  true  "Enquiry"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SendEnquiry(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Name, email, subject and message are required"))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Thanks! Our team will reply to your email.", nil)
}
