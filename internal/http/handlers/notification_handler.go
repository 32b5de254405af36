package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshiot4/UrbanWatch-plus/internal/dto"
	"github.com/sakshiot4/UrbanWatch-plus/internal/http/handlers/common"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// NotificationHandler serves the in-app notification feed.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates the handler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /notifications?limit=&offset=&unread_only=.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	limit, offset := common.GetPagination(c)
	unreadOnly := c.Query("unread_only") == "true"

	items, err := h.notifications.ListNotifications(c.Request.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// CountUnread handles GET /notifications/unread/count.
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAsRead handles PUT /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "notification marked as read"})
}

// MarkAllAsRead handles PUT /notifications/read-all.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "all notifications marked as read"})
}
