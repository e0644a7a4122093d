package v1

import (
	"net/http"

	"candidate-portal/internal/delivery/http/middleware"
	"candidate-portal/internal/delivery/http/response"
	"candidate-portal/internal/domain"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(protected *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.GET("/unread-count", handler.UnreadCount)
		notifications.POST("/:id/read", handler.MarkRead)
	}
}

// List godoc
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Notification}
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.notificationUC.List(c.Request.Context(), middleware.CurrentSession(c).UserID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notifications retrieved", items)
}

// UnreadCount godoc
// @Summary      Unread notification count
// @Description  Polled by open pages; poll_interval_seconds tells clients how often.
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UnreadCount}
// @Router       /notifications/unread-count [get]
// @Security     BearerAuth
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationUC.UnreadCount(c.Request.Context(), middleware.CurrentSession(c).UserID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Unread count retrieved", count)
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notifications/{id}/read [post]
// @Security     BearerAuth
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationUC.MarkRead(c.Request.Context(), middleware.CurrentSession(c).UserID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notification marked as read", nil)
}
