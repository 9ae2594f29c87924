package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue"
)

var (
	ErrProfileNotFound = errors.New("risk profile not found")
	ErrProfileExists   = errors.New("risk profile already exists")
	ErrInvalidScore    = errors.New("invalid risk score")
	ErrInvalidProfile  = errors.New("risk profile validation failed")
)

// ProfileCommandService 处理画像相关的命令操作
// Writes 统一走 MySQL + Outbox 事件发布，读缓存在写后失效
type ProfileCommandService struct {
	repo      domain.ProfileRepository
	readRepo  domain.ProfileReadRepository
	publisher messagequeue.EventPublisher
	logger    *slog.Logger
}

// NewProfileCommandService 创建画像命令服务
func NewProfileCommandService(
	repo domain.ProfileRepository,
	readRepo domain.ProfileReadRepository,
	publisher messagequeue.EventPublisher,
	logger *slog.Logger,
) *ProfileCommandService {
	return &ProfileCommandService{
		repo:      repo,
		readRepo:  readRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// OnboardCustomer 开户建档
// 画像创建时评分缺失，处于 NEVER_ASSESSED 状态
func (s *ProfileCommandService) OnboardCustomer(ctx context.Context, cmd OnboardCustomerCommand) (*ProfileDTO, error) {
	if strings.TrimSpace(cmd.CustomerID) == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProfile, domain.ViolationMissingCustomerID)
	}

	existing, err := s.repo.GetByCustomerID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: customer %s", ErrProfileExists, cmd.CustomerID)
	}

	profile := domain.NewRiskProfile(cmd.CustomerID)

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, profile); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		event := domain.ProfileOnboardedEvent{
			CustomerID: profile.CustomerID,
			CreatedAt:  time.Now().Unix(),
			OccurredOn: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ProfileOnboardedEventType, profile.CustomerID, event)
	})
	if err != nil {
		return nil, err
	}

	return toProfileDTO(profile, time.Now()), nil
}

// RecordAssessment 记录一次评估
// 用例流程：
// 1. 解析评分（格式非法直接拒绝，不默认归档）
// 2. 加载画像并追加历史、刷新评分/类别/评估时间
// 3. 跨字段校验，失败拒绝持久化
// 4. 事务内保存并发布事件；类别变更额外发布变更事件
func (s *ProfileCommandService) RecordAssessment(ctx context.Context, cmd RecordAssessmentCommand) (*ProfileDTO, error) {
	score, err := decimal.NewFromString(cmd.Score)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScore, cmd.Score)
	}
	if score.LessThan(domain.ScoreMin) || score.GreaterThan(domain.ScoreMax) {
		return nil, fmt.Errorf("%w: %s out of [0,1000]", ErrInvalidScore, score)
	}

	profile, err := s.repo.GetByCustomerID(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrProfileNotFound, cmd.CustomerID)
	}

	now := time.Now()
	assessedAt := now
	if cmd.AssessedAt > 0 {
		assessedAt = time.Unix(cmd.AssessedAt, 0)
	}

	previousCategory := profile.RiskCategory
	profile.RecordAssessment(score, assessedAt)

	if violations := profile.Validate(now); len(violations) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, violations)
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, profile); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		recorded := domain.AssessmentRecordedEvent{
			CustomerID:   profile.CustomerID,
			Score:        score.String(),
			RiskCategory: profile.RiskCategory,
			AssessedAt:   assessedAt.Unix(),
			OccurredOn:   now,
		}
		if err := s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.AssessmentRecordedEventType, profile.CustomerID, recorded); err != nil {
			return err
		}
		if previousCategory == profile.RiskCategory {
			return nil
		}
		changed := domain.CategoryChangedEvent{
			CustomerID:   profile.CustomerID,
			FromCategory: previousCategory,
			ToCategory:   profile.RiskCategory,
			Score:        score.String(),
			OccurredOn:   now,
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.CategoryChangedEventType, profile.CustomerID, changed)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, profile.CustomerID)
	return toProfileDTO(profile, now), nil
}

// RefreshCategory 按当前评分修复风险类别，幂等
// 用于修正存量数据中类别与评分不一致的画像
func (s *ProfileCommandService) RefreshCategory(ctx context.Context, customerID string) (*ProfileDTO, error) {
	profile, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrProfileNotFound, customerID)
	}

	now := time.Now()
	previousCategory := profile.RiskCategory
	profile.UpdateCategory()
	if previousCategory == profile.RiskCategory {
		return toProfileDTO(profile, now), nil
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, profile); err != nil {
			return err
		}
		if s.publisher == nil || profile.CurrentRiskScore == nil {
			return nil
		}
		changed := domain.CategoryChangedEvent{
			CustomerID:   profile.CustomerID,
			FromCategory: previousCategory,
			ToCategory:   profile.RiskCategory,
			Score:        profile.CurrentRiskScore.String(),
			OccurredOn:   now,
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.CategoryChangedEventType, profile.CustomerID, changed)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, customerID)
	return toProfileDTO(profile, now), nil
}

// EraseCustomer 监管删除权：删除画像并级联删除全部历史
func (s *ProfileCommandService) EraseCustomer(ctx context.Context, customerID string) error {
	profile, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("%w: customer %s", ErrProfileNotFound, customerID)
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, customerID); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		event := domain.ProfileErasedEvent{
			CustomerID: customerID,
			OccurredOn: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ProfileErasedEventType, customerID, event)
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, customerID)
	return nil
}

func (s *ProfileCommandService) invalidateCache(ctx context.Context, customerID string) {
	if s.readRepo == nil {
		return
	}
	if err := s.readRepo.DeleteProfile(ctx, customerID); err != nil {
		s.logger.Warn("failed to invalidate profile cache", "customer_id", customerID, "error", err)
	}
}
