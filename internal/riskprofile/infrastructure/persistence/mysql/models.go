package mysql

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
)

// ProfileModel 画像数据库模型
type ProfileModel struct {
	gorm.Model
	CustomerID       string       `gorm:"column:customer_id;type:varchar(36);uniqueIndex;not null"`
	CurrentRiskScore *string      `gorm:"column:current_risk_score;type:decimal(7,2)"`
	RiskCategory     string       `gorm:"column:risk_category;type:varchar(20);index"`
	LastAssessedAt   *time.Time   `gorm:"column:last_assessed_at;type:datetime;index"`
	Scores           []ScoreModel `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}

func (ProfileModel) TableName() string {
	return "risk_profiles"
}

// ScoreModel 历史评分数据库模型，仅追加
type ScoreModel struct {
	gorm.Model
	ProfileID      uint       `gorm:"column:profile_id;index;not null"`
	Value          string     `gorm:"column:value;type:decimal(7,2);not null"`
	AssessmentDate *time.Time `gorm:"column:assessment_date;type:datetime"`
}

func (ScoreModel) TableName() string {
	return "risk_scores"
}

// ToDomain 数据损坏（评分列无法解析）直接报错，不得降级为未评估画像
func (m *ProfileModel) ToDomain() (*domain.RiskProfile, error) {
	p := &domain.RiskProfile{
		CustomerID:     m.CustomerID,
		RiskCategory:   domain.RiskCategory(m.RiskCategory),
		LastAssessedAt: m.LastAssessedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.CurrentRiskScore != nil {
		score, err := decimal.NewFromString(*m.CurrentRiskScore)
		if err != nil {
			return nil, fmt.Errorf("corrupt current_risk_score %q for customer %s: %w", *m.CurrentRiskScore, m.CustomerID, err)
		}
		p.CurrentRiskScore = &score
	}
	for i := range m.Scores {
		s, err := m.Scores[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("customer %s: %w", m.CustomerID, err)
		}
		p.History = append(p.History, *s)
	}
	return p, nil
}

func (m *ScoreModel) ToDomain() (*domain.RiskScore, error) {
	value, err := decimal.NewFromString(m.Value)
	if err != nil {
		return nil, fmt.Errorf("corrupt score value %q (id %d): %w", m.Value, m.ID, err)
	}
	return &domain.RiskScore{
		Value:          value,
		AssessmentDate: m.AssessmentDate,
	}, nil
}

func FromProfileDomain(p *domain.RiskProfile) *ProfileModel {
	m := &ProfileModel{
		CustomerID:     p.CustomerID,
		RiskCategory:   string(p.RiskCategory),
		LastAssessedAt: p.LastAssessedAt,
	}
	if p.CurrentRiskScore != nil {
		s := p.CurrentRiskScore.String()
		m.CurrentRiskScore = &s
	}
	for i := range p.History {
		m.Scores = append(m.Scores, *FromScoreDomain(&p.History[i]))
	}
	return m
}

func FromScoreDomain(s *domain.RiskScore) *ScoreModel {
	return &ScoreModel{
		Value:          s.Value.String(),
		AssessmentDate: s.AssessmentDate,
	}
}
