package services

import (
	"gorm.io/gorm"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/logger"
	"hardhat/internal/models"
)

// notificationLimit caps how many notifications a single listing returns.
const notificationLimit = 50

// notificationService handles in-app notifications.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// Notify records a notification for a user. Failures are logged and
// never propagate so they cannot disrupt the triggering operation.
func (s *notificationService) Notify(userID string, jobID *string, notificationType models.NotificationType, title, message string) {
	notification := &models.Notification{
		UserID:  userID,
		JobID:   jobID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logger.Get().Errorw("failed to create notification",
			"error", err,
			"user_id", userID,
			"type", notificationType,
		)
	}
}

// GetUserNotifications returns the user's most recent notifications and
// the count of unread ones.
func (s *notificationService) GetUserNotifications(userID string) (*NotificationList, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Preload("Job").
		Order("created_at DESC").
		Limit(notificationLimit).
		Find(&notifications).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var unread int64
	err = s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the user as read.
func (s *notificationService) MarkAllRead(userID string) error {
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
