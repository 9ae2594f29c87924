package domain

import "context"

// NotificationRepository 通知存储
type NotificationRepository interface {
	Save(ctx context.Context, notification *Notification) error
	// GetByNotificationID 未找到返回 (nil, nil)
	GetByNotificationID(ctx context.Context, notificationID string) (*Notification, error)
	ListByCustomerID(ctx context.Context, customerID string, status NotificationStatus, limit, offset int) ([]*Notification, error)
}

// Sender 通知发送通道
type Sender interface {
	Send(ctx context.Context, target, subject, content string) error
}
