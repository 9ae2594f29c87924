package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finwell/riskplatform/internal/notification/application"
	"github.com/finwell/riskplatform/internal/notification/domain"
	riskdomain "github.com/finwell/riskplatform/internal/riskprofile/domain"
	"github.com/finwell/riskplatform/pkg/mq"
)

// RiskEventHandler 将风险画像事件转换为客户通知
type RiskEventHandler struct {
	command *application.NotificationCommandService
	logger  *slog.Logger
}

func NewRiskEventHandler(command *application.NotificationCommandService, logger *slog.Logger) *RiskEventHandler {
	return &RiskEventHandler{command: command, logger: logger}
}

func (h *RiskEventHandler) Handle(ctx context.Context, msg *mq.Message) error {
	switch msg.Topic {
	case riskdomain.ProfileOnboardedEventType:
		var event riskdomain.ProfileOnboardedEvent
		if err := msg.UnmarshalPayload(&event); err != nil {
			return err
		}
		_, err := h.command.CreateAndDispatch(ctx, application.CreateNotificationCommand{
			CustomerID: event.CustomerID,
			Type:       string(domain.NotificationTypeInApp),
			Category:   domain.CategoryOnboarded,
			Subject:    "欢迎开户",
			Content:    "您的风险画像已建立，首次风险评估即将开始。",
		})
		return err

	case riskdomain.ReassessmentDueEventType:
		var event riskdomain.ReassessmentDueEvent
		if err := msg.UnmarshalPayload(&event); err != nil {
			return err
		}
		_, err := h.command.CreateAndDispatch(ctx, application.CreateNotificationCommand{
			CustomerID: event.CustomerID,
			Type:       string(domain.NotificationTypeInApp),
			Category:   domain.CategoryReassessmentDue,
			Subject:    "风险评估到期",
			Content:    fmt.Sprintf("您的风险画像（类别 %s）已到重评周期，将重新评估。", event.RiskCategory),
		})
		return err

	case riskdomain.CategoryChangedEventType:
		var event riskdomain.CategoryChangedEvent
		if err := msg.UnmarshalPayload(&event); err != nil {
			return err
		}
		_, err := h.command.CreateAndDispatch(ctx, application.CreateNotificationCommand{
			CustomerID: event.CustomerID,
			Type:       string(domain.NotificationTypeInApp),
			Category:   domain.CategoryCategoryChanged,
			Subject:    "风险类别变更",
			Content:    fmt.Sprintf("您的风险类别由 %s 调整为 %s（评分 %s）。", event.FromCategory, event.ToCategory, event.Score),
		})
		return err

	default:
		h.logger.WarnContext(ctx, "unknown risk event topic", "topic", msg.Topic)
		return nil
	}
}
