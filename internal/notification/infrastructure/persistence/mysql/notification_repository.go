package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/finwell/riskplatform/internal/notification/domain"
)

type notificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) GetByNotificationID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.WithContext(ctx).Where("notification_id = ?", notificationID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByCustomerID(ctx context.Context, customerID string, status domain.NotificationStatus, limit, offset int) ([]*domain.Notification, error) {
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var notifications []*domain.Notification
	err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	return notifications, err
}
