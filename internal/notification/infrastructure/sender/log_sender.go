package sender

import (
	"context"
	"log/slog"

	"github.com/finwell/riskplatform/internal/notification/domain"
)

// LogSender 站内/开发环境发送器，仅写日志
type LogSender struct{}

func NewLogSender() domain.Sender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, target, subject, content string) error {
	slog.InfoContext(ctx, "notification dispatched",
		"sender", "LogSender",
		"target", target,
		"subject", subject,
		"content_length", len(content),
	)
	return nil
}
