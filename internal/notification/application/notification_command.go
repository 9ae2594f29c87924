package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finwell/riskplatform/internal/notification/domain"
	"github.com/wyfcoding/pkg/idgen"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationCommandService 处理通知的创建、发送与状态流转
type NotificationCommandService struct {
	repo    domain.NotificationRepository
	senders map[domain.NotificationType]domain.Sender
	logger  *slog.Logger
}

// NewNotificationCommandService 创建通知命令服务
func NewNotificationCommandService(
	repo domain.NotificationRepository,
	senders map[domain.NotificationType]domain.Sender,
	logger *slog.Logger,
) *NotificationCommandService {
	return &NotificationCommandService{repo: repo, senders: senders, logger: logger}
}

// CreateAndDispatch 创建通知并立即发送
// 发送失败不返回错误：通知记录保留 FAILED 状态与失败原因，由运营侧补发
func (s *NotificationCommandService) CreateAndDispatch(ctx context.Context, cmd CreateNotificationCommand) (*NotificationDTO, error) {
	if cmd.CustomerID == "" {
		return nil, fmt.Errorf("customer id is required")
	}

	notifType := domain.NotificationType(cmd.Type)
	if cmd.Target == "" {
		notifType = domain.NotificationTypeInApp
	}

	notification := &domain.Notification{
		NotificationID: fmt.Sprintf("NTF-%d", idgen.GenID()),
		CustomerID:     cmd.CustomerID,
		Type:           notifType,
		Category:       cmd.Category,
		Subject:        cmd.Subject,
		Content:        cmd.Content,
		Target:         cmd.Target,
		Status:         domain.NotificationStatusPending,
	}
	if err := s.repo.Save(ctx, notification); err != nil {
		return nil, err
	}

	sender, ok := s.senders[notifType]
	if !ok {
		sender = s.senders[domain.NotificationTypeInApp]
	}

	if err := sender.Send(ctx, notification.Target, notification.Subject, notification.Content); err != nil {
		s.logger.Error("notification send failed",
			"notification_id", notification.NotificationID,
			"customer_id", notification.CustomerID,
			"error", err,
		)
		notification.MarkFailed(err)
	} else {
		notification.MarkSent(time.Now())
	}

	if err := s.repo.Save(ctx, notification); err != nil {
		return nil, err
	}
	return toNotificationDTO(notification), nil
}

// MarkRead 标记站内通知已读
func (s *NotificationCommandService) MarkRead(ctx context.Context, notificationID string) (*NotificationDTO, error) {
	notification, err := s.repo.GetByNotificationID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotificationNotFound, notificationID)
	}

	notification.MarkRead()
	if err := s.repo.Save(ctx, notification); err != nil {
		return nil, err
	}
	return toNotificationDTO(notification), nil
}
