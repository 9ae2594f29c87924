// Package domain 通知服务的领域模型
package domain

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotificationTypeEmail   NotificationType = "EMAIL"   // 邮件通知
	NotificationTypeWebhook NotificationType = "WEBHOOK" // Webhook 通知
	NotificationTypeInApp   NotificationType = "IN_APP"  // 站内通知
)

// NotificationStatus 通知状态
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
	NotificationStatusRead    NotificationStatus = "READ"
)

// 业务事件对应的通知类目
const (
	CategoryOnboarded       = "PROFILE_ONBOARDED"
	CategoryReassessmentDue = "REASSESSMENT_DUE"
	CategoryCategoryChanged = "RISK_CATEGORY_CHANGED"
)

// Notification 通知实体
type Notification struct {
	gorm.Model
	// NotificationID 通知 ID
	NotificationID string `gorm:"column:notification_id;type:varchar(32);uniqueIndex;not null" json:"notification_id"`
	// CustomerID 客户 ID
	CustomerID string `gorm:"column:customer_id;type:varchar(36);index;not null" json:"customer_id"`
	// Type 通知类型
	Type NotificationType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	// Category 通知类目（触发的业务事件）
	Category string `gorm:"column:category;type:varchar(40);index;not null" json:"category"`
	// Subject 通知主题
	Subject string `gorm:"column:subject;type:varchar(100)" json:"subject"`
	// Content 通知内容
	Content string `gorm:"column:content;type:text" json:"content"`
	// Target 通知目标（如邮箱、Webhook URL）
	Target string `gorm:"column:target;type:varchar(200)" json:"target"`
	// Status 通知状态
	Status NotificationStatus `gorm:"column:status;type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	// ErrorMessage 错误信息
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message"`
	// SentAt 发送时间
	SentAt *time.Time `gorm:"column:sent_at;type:datetime" json:"sent_at"`
}

func (Notification) TableName() string { return "notifications" }

// MarkSent 标记发送成功
func (n *Notification) MarkSent(at time.Time) {
	n.Status = NotificationStatusSent
	n.SentAt = &at
	n.ErrorMessage = ""
}

// MarkFailed 标记发送失败
func (n *Notification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	if err != nil {
		n.ErrorMessage = err.Error()
	}
}

// MarkRead 站内通知已读
func (n *Notification) MarkRead() {
	n.Status = NotificationStatusRead
}
