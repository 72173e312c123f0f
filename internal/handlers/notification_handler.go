package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/services"
)

// NotificationHandler handles in-app notification requests.
type NotificationHandler struct {
	notificationService services.NotificationServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// MarkNotificationsRequest marks one notification read, or all of them.
type MarkNotificationsRequest struct {
	NotificationID *string `json:"notificationId"`
	All            bool    `json:"all"`
}

// GetNotifications handles listing the user's recent notifications.
// @Summary     Get notifications
// @Description Get the user's most recent notifications and unread count
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.NotificationList "Notifications"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	list, err := h.notificationService.GetUserNotifications(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// MarkNotifications handles marking notifications as read.
// @Summary     Mark notifications read
// @Description Mark one notification read by ID, or all with {"all": true}
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MarkNotificationsRequest true "Which notifications to mark"
// @Success     200 {object} MessageResponse "Notifications marked read"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [patch]
func (h *NotificationHandler) MarkNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MarkNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	switch {
	case req.All:
		if err := h.notificationService.MarkAllRead(userID); err != nil {
			respondWithError(c, err)
			return
		}
	case req.NotificationID != nil:
		if err := h.notificationService.MarkRead(userID, *req.NotificationID); err != nil {
			respondWithError(c, err)
			return
		}
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Provide notificationId or all"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked read"})
}
