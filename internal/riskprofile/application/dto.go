// 包 风险画像服务的用例逻辑、DTO、事务边界
package application

import (
	"time"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
)

// OnboardCustomerCommand 开户建档命令
type OnboardCustomerCommand struct {
	CustomerID string // 客户 ID
}

// RecordAssessmentCommand 记录评估命令
type RecordAssessmentCommand struct {
	CustomerID string // 客户 ID
	Score      string // 评分，十进制字符串
	AssessedAt int64  // 评估时间戳（秒），0 表示当前时间
}

// ProfileDTO 画像 DTO
type ProfileDTO struct {
	CustomerID           string // 客户 ID
	CurrentRiskScore     string // 当前评分，未评估为空串
	RiskCategory         string // 风险类别
	LastAssessedAt       int64  // 最近评估时间戳，0 表示从未评估
	RequiresReassessment bool   // 是否需要重评
	CreatedAt            int64  // 创建时间戳
	UpdatedAt            int64  // 更新时间戳
}

// ScoreDTO 历史评分 DTO
type ScoreDTO struct {
	Value          string // 评分
	AssessmentDate int64  // 评估时间戳，0 表示缺失
}

// ReassessmentDTO 重评判定 DTO
type ReassessmentDTO struct {
	CustomerID           string // 客户 ID
	RiskCategory         string // 判定使用的风险类别
	ThresholdHours       int    // 适用阈值（小时）
	LastAssessedAt       int64  // 最近评估时间戳，0 表示从未评估
	RequiresReassessment bool   // 判定结果
}

func toProfileDTO(p *domain.RiskProfile, now time.Time) *ProfileDTO {
	dto := &ProfileDTO{
		CustomerID:           p.CustomerID,
		RiskCategory:         string(p.RiskCategory),
		RequiresReassessment: p.RequiresReassessment(now),
		CreatedAt:            p.CreatedAt.Unix(),
		UpdatedAt:            p.UpdatedAt.Unix(),
	}
	if p.CurrentRiskScore != nil {
		dto.CurrentRiskScore = p.CurrentRiskScore.String()
	}
	if p.LastAssessedAt != nil {
		dto.LastAssessedAt = p.LastAssessedAt.Unix()
	}
	return dto
}

func toScoreDTO(s *domain.RiskScore) *ScoreDTO {
	dto := &ScoreDTO{Value: s.Value.String()}
	if s.AssessmentDate != nil {
		dto.AssessmentDate = s.AssessmentDate.Unix()
	}
	return dto
}
