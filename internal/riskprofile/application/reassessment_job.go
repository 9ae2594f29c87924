package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
	"github.com/wyfcoding/pkg/messagequeue"
)

// ReassessmentJob 定期扫描到期画像并发布重评事件，由评分引擎消费触发重算。
type ReassessmentJob struct {
	repo      domain.ProfileRepository
	publisher messagequeue.EventPublisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

func NewReassessmentJob(
	repo domain.ProfileRepository,
	publisher messagequeue.EventPublisher,
	logger *slog.Logger,
) *ReassessmentJob {
	return &ReassessmentJob{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		interval:  15 * time.Minute, // 最短阈值 24h，15 分钟粒度足够
		batchSize: 100,
	}
}

func (j *ReassessmentJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Reassessment Job started", "interval", j.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *ReassessmentJob) run(ctx context.Context) {
	now := time.Now()
	offset := 0
	for {
		profiles, err := j.repo.ListStale(ctx, now, j.batchSize, offset)
		if err != nil {
			j.logger.Error("failed to list stale profiles", "error", err)
			return
		}
		if len(profiles) == 0 {
			return
		}

		for _, p := range profiles {
			event := domain.ReassessmentDueEvent{
				CustomerID:   p.CustomerID,
				RiskCategory: p.RiskCategory,
				OccurredOn:   now,
			}
			if p.LastAssessedAt != nil {
				event.LastAssessedAt = p.LastAssessedAt.Unix()
			}
			if err := j.publisher.Publish(ctx, domain.ReassessmentDueEventType, p.CustomerID, event); err != nil {
				j.logger.Error("failed to publish reassessment due event", "customer_id", p.CustomerID, "error", err)
			}
		}

		if len(profiles) < j.batchSize {
			return
		}
		offset += j.batchSize
	}
}
