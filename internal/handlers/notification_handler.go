package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cnds86/kiptrack/internal/pagination"
	"github.com/cnds86/kiptrack/internal/services"
)

// NotificationHandler handles notification requests.
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications handles listing notifications, newest first
// @Summary     List notifications
// @Tags        notifications
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Notification]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	result, err := h.notificationService.ListNotifications(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClearNotifications handles removing every notification
// @Summary     Clear notifications
// @Tags        notifications
// @Security    ApiKeyAuth
// @Success     204
// @Router      /notifications [delete]
func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	if err := h.notificationService.ClearNotifications(); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
