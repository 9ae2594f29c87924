package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
	"github.com/wyfcoding/pkg/contextx"
)

type profileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) domain.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *profileRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

// Save 保存画像
// 历史仅追加：已有画像只更新画像列并插入超出已持久化数量的历史尾部
func (r *profileRepository) Save(ctx context.Context, profile *domain.RiskProfile) error {
	db := r.getDB(ctx)

	var existing ProfileModel
	err := db.WithContext(ctx).Where("customer_id = ?", profile.CustomerID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		model := FromProfileDomain(profile)
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		profile.CreatedAt = model.CreatedAt
		profile.UpdatedAt = model.UpdatedAt
		return nil
	}
	if err != nil {
		return err
	}

	updates := map[string]any{
		"risk_category":    string(profile.RiskCategory),
		"last_assessed_at": profile.LastAssessedAt,
	}
	if profile.CurrentRiskScore != nil {
		updates["current_risk_score"] = profile.CurrentRiskScore.String()
	} else {
		updates["current_risk_score"] = nil
	}
	if err := db.WithContext(ctx).Model(&ProfileModel{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return err
	}

	var persisted int64
	if err := db.WithContext(ctx).Model(&ScoreModel{}).Where("profile_id = ?", existing.ID).Count(&persisted).Error; err != nil {
		return err
	}
	for i := int(persisted); i < len(profile.History); i++ {
		score := FromScoreDomain(&profile.History[i])
		score.ProfileID = existing.ID
		if err := db.WithContext(ctx).Create(score).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *profileRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.RiskProfile, error) {
	db := r.getDB(ctx)

	var model ProfileModel
	err := db.WithContext(ctx).
		Preload("Scores", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("customer_id = ?", customerID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain()
}

// ListStale 扫描到期画像，SQL 条件与领域阈值语义一致（elapsed >= threshold ⟺ last <= now - threshold）
func (r *profileRepository) ListStale(ctx context.Context, now time.Time, limit, offset int) ([]*domain.RiskProfile, error) {
	db := r.getDB(ctx)

	highCutoff := now.Add(-time.Duration(domain.ReassessmentThresholdHours(domain.RiskCategoryHigh)) * time.Hour)
	mediumCutoff := now.Add(-time.Duration(domain.ReassessmentThresholdHours(domain.RiskCategoryMedium)) * time.Hour)
	lowCutoff := now.Add(-time.Duration(domain.ReassessmentThresholdHours(domain.RiskCategoryLow)) * time.Hour)

	var models []ProfileModel
	err := db.WithContext(ctx).
		Where(
			"last_assessed_at IS NULL"+
				" OR (risk_category = ? AND last_assessed_at <= ?)"+
				" OR (risk_category = ? AND last_assessed_at <= ?)"+
				" OR (risk_category NOT IN (?, ?) AND last_assessed_at <= ?)",
			domain.RiskCategoryHigh, highCutoff,
			domain.RiskCategoryLow, lowCutoff,
			domain.RiskCategoryHigh, domain.RiskCategoryLow, mediumCutoff,
		).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.RiskProfile, 0, len(models))
	for i := range models {
		p, err := models[i].ToDomain()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Delete 硬删除画像及其全部历史（监管删除权要求物理删除）
func (r *profileRepository) Delete(ctx context.Context, customerID string) error {
	db := r.getDB(ctx)

	var model ProfileModel
	err := db.WithContext(ctx).Where("customer_id = ?", customerID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Unscoped().Where("profile_id = ?", model.ID).Delete(&ScoreModel{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Unscoped().Delete(&model).Error
}
