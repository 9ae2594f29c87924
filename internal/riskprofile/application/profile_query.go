package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
)

// ProfileQueryService 处理画像查询，读优先走 Redis 缓存，未命中回源 MySQL 并回填
type ProfileQueryService struct {
	repo     domain.ProfileRepository
	readRepo domain.ProfileReadRepository
	logger   *slog.Logger
}

// NewProfileQueryService 创建画像查询服务
func NewProfileQueryService(repo domain.ProfileRepository, readRepo domain.ProfileReadRepository, logger *slog.Logger) *ProfileQueryService {
	return &ProfileQueryService{repo: repo, readRepo: readRepo, logger: logger}
}

// GetProfile 查询画像
func (s *ProfileQueryService) GetProfile(ctx context.Context, customerID string) (*ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toProfileDTO(profile, time.Now()), nil
}

// LatestScore 查询最近一次历史评分，历史为空返回 (nil, nil)
func (s *ProfileQueryService) LatestScore(ctx context.Context, customerID string) (*ScoreDTO, error) {
	// 历史必须来自主存储，缓存副本可能不含完整历史
	profile, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrProfileNotFound, customerID)
	}
	latest := profile.LatestScore()
	if latest == nil {
		return nil, nil
	}
	return toScoreDTO(latest), nil
}

// RequiresReassessment 判定画像是否到期待重评
func (s *ProfileQueryService) RequiresReassessment(ctx context.Context, customerID string) (*ReassessmentDTO, error) {
	profile, err := s.loadProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dto := &ReassessmentDTO{
		CustomerID:           profile.CustomerID,
		RiskCategory:         string(profile.RiskCategory),
		ThresholdHours:       domain.ReassessmentThresholdHours(profile.RiskCategory),
		RequiresReassessment: profile.RequiresReassessment(now),
	}
	if profile.LastAssessedAt != nil {
		dto.LastAssessedAt = profile.LastAssessedAt.Unix()
	}
	return dto, nil
}

// ListStaleProfiles 分页列出到期待重评的画像
func (s *ProfileQueryService) ListStaleProfiles(ctx context.Context, limit, offset int) ([]*ProfileDTO, error) {
	if limit <= 0 {
		limit = 20
	}
	now := time.Now()
	profiles, err := s.repo.ListStale(ctx, now, limit, offset)
	if err != nil {
		return nil, err
	}
	dtos := make([]*ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		dtos = append(dtos, toProfileDTO(p, now))
	}
	return dtos, nil
}

func (s *ProfileQueryService) loadProfile(ctx context.Context, customerID string) (*domain.RiskProfile, error) {
	if s.readRepo != nil {
		cached, err := s.readRepo.GetProfile(ctx, customerID)
		if err != nil {
			s.logger.Warn("profile cache read failed", "customer_id", customerID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	profile, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrProfileNotFound, customerID)
	}

	if s.readRepo != nil {
		if err := s.readRepo.SaveProfile(ctx, profile); err != nil {
			s.logger.Warn("profile cache backfill failed", "customer_id", customerID, "error", err)
		}
	}
	return profile, nil
}
