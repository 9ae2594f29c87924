package application

import (
	"context"

	"github.com/finwell/riskplatform/internal/notification/domain"
)

// NotificationQueryService 处理通知查询
type NotificationQueryService struct {
	repo domain.NotificationRepository
}

// NewNotificationQueryService 创建通知查询服务
func NewNotificationQueryService(repo domain.NotificationRepository) *NotificationQueryService {
	return &NotificationQueryService{repo: repo}
}

// ListByCustomer 分页查询客户的通知，status 为空查全部
func (s *NotificationQueryService) ListByCustomer(ctx context.Context, customerID, status string, limit, offset int) ([]*NotificationDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	notifications, err := s.repo.ListByCustomerID(ctx, customerID, domain.NotificationStatus(status), limit, offset)
	if err != nil {
		return nil, err
	}
	dtos := make([]*NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, toNotificationDTO(n))
	}
	return dtos, nil
}
