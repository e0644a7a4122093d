package v1

import (
	"net/http"

	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/usecase"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]string}
// @Failure      503  {object}  response.Response{error=map[string]string}
// @Router       /health [get]
func Health(healthUC usecase.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := healthUC.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	}
}
