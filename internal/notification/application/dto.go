// 包 通知服务的用例逻辑与 DTO
package application

import (
	"github.com/finwell/riskplatform/internal/notification/domain"
)

// CreateNotificationCommand 创建通知命令
type CreateNotificationCommand struct {
	CustomerID string // 客户 ID
	Type       string // 通知类型
	Category   string // 通知类目
	Subject    string // 主题
	Content    string // 内容
	Target     string // 发送目标，空值按站内通知处理
}

// NotificationDTO 通知 DTO
type NotificationDTO struct {
	NotificationID string // 通知 ID
	CustomerID     string // 客户 ID
	Type           string // 通知类型
	Category       string // 通知类目
	Subject        string // 主题
	Content        string // 内容
	Status         string // 状态
	ErrorMessage   string // 失败原因
	SentAt         int64  // 发送时间戳，0 表示未发送
	CreatedAt      int64  // 创建时间戳
}

func toNotificationDTO(n *domain.Notification) *NotificationDTO {
	dto := &NotificationDTO{
		NotificationID: n.NotificationID,
		CustomerID:     n.CustomerID,
		Type:           string(n.Type),
		Category:       n.Category,
		Subject:        n.Subject,
		Content:        n.Content,
		Status:         string(n.Status),
		ErrorMessage:   n.ErrorMessage,
		CreatedAt:      n.CreatedAt.Unix(),
	}
	if n.SentAt != nil {
		dto.SentAt = n.SentAt.Unix()
	}
	return dto
}
