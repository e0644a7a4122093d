package v1

import (
	"net/http"

	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"
	"candidate-portal/pkg/security"

	"github.com/gin-gonic/gin"
)

type WaitlistHandler struct {
	waitlistUC domain.WaitlistUsecase
}

// NewWaitlistHandler registers the public signup route behind its own rate
// limit and the stats route behind admin.
func NewWaitlistHandler(public *gin.RouterGroup, admin *gin.RouterGroup, waitlistUC domain.WaitlistUsecase, limit gin.HandlerFunc) {
	handler := &WaitlistHandler{waitlistUC: waitlistUC}

	public.POST("/waitlist", limit, handler.Join)
	admin.GET("/waitlist/stats", handler.Stats)
	admin.GET("/waitlist/export", handler.Export)
}

// Join godoc
// @Summary      Join the waitlist
// @Description  Landing page signup. Duplicate emails return 409.
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        request  body      domain.WaitlistRequest  true  "Signup"
// @Success      201      {object}  response.Response{data=domain.WaitlistEntry}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req domain.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	entry, err := h.waitlistUC.Join(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "You're on the list!", entry)
}

// Stats godoc
// @Summary      Waitlist signups per source
// @Tags         waitlist
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]int64}
// @Failure      401  {object}  response.Response
// @Router       /admin/waitlist/stats [get]
// @Security     AdminKey
func (h *WaitlistHandler) Stats(c *gin.Context) {
	stats, err := h.waitlistUC.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Waitlist stats retrieved", stats)
}

// Export godoc
// @Summary      Export the waitlist
// @Description  Download every signup as an Excel workbook
// @Tags         waitlist
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      401  {object}  response.Response
// @Router       /admin/waitlist/export [get]
// @Security     AdminKey
func (h *WaitlistHandler) Export(c *gin.Context) {
	data, filename, err := h.waitlistUC.Export(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	security.Default().LogDataExport(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), "waitlist", len(data))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
