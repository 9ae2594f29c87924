package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/finwell/riskplatform/internal/riskprofile/application"
	"github.com/finwell/riskplatform/internal/riskprofile/domain"
)

// AssessmentHandler 消费评分引擎产出的评估完成事件并落库
type AssessmentHandler struct {
	command *application.ProfileCommandService
	logger  *slog.Logger
}

func NewAssessmentHandler(command *application.ProfileCommandService, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{command: command, logger: logger}
}

func (h *AssessmentHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case domain.AssessmentCompletedEventType:
		var payload struct {
			CustomerID string `json:"customer_id"`
			Score      string `json:"score"`
			AssessedAt int64  `json:"assessed_at"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal assessment event", "error", err)
			return err
		}

		_, err := h.command.RecordAssessment(ctx, application.RecordAssessmentCommand{
			CustomerID: payload.CustomerID,
			Score:      payload.Score,
			AssessedAt: payload.AssessedAt,
		})
		if errors.Is(err, application.ErrProfileNotFound) ||
			errors.Is(err, application.ErrInvalidScore) ||
			errors.Is(err, application.ErrInvalidProfile) {
			// 坏数据不重试，记录后跳过
			h.logger.WarnContext(ctx, "assessment event rejected", "customer_id", payload.CustomerID, "error", err)
			return nil
		}
		return err
	default:
		h.logger.WarnContext(ctx, "unknown riskprofile event topic", "topic", msg.Topic)
		return nil
	}
}
