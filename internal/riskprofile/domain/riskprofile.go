// 包 风险画像服务的领域模型、实体、聚合、值对象、领域服务、仓储接口
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskCategory 风险类别
type RiskCategory string

const (
	RiskCategoryLow    RiskCategory = "LOW"
	RiskCategoryMedium RiskCategory = "MEDIUM"
	RiskCategoryHigh   RiskCategory = "HIGH"
)

// 评分区间边界，闭区间上界归属各自档位
var (
	ScoreMin       = decimal.Zero
	ScoreMax       = decimal.NewFromInt(1000)
	lowBandCeiling = decimal.NewFromInt(300)
	midBandCeiling = decimal.NewFromInt(700)
)

// Classify 根据数值评分推导风险类别
// LOW: score <= 300; MEDIUM: 300 < score <= 700; HIGH: score > 700
// 纯函数，对全定义域封闭，无副作用
func Classify(score decimal.Decimal) RiskCategory {
	switch {
	case score.LessThanOrEqual(lowBandCeiling):
		return RiskCategoryLow
	case score.LessThanOrEqual(midBandCeiling):
		return RiskCategoryMedium
	default:
		return RiskCategoryHigh
	}
}

// RiskScore 历史评分条目，仅追加，归属于其所属画像
type RiskScore struct {
	Value          decimal.Decimal // 评估时的评分
	AssessmentDate *time.Time      // 该评分的计算时间
}

// RiskProfile 客户风险画像聚合根
// 每客户一条；History 为仅追加的历史评分，随画像级联删除
type RiskProfile struct {
	CustomerID       string           // 客户唯一标识，创建后不可变
	CurrentRiskScore *decimal.Decimal // 当前评分，[0,1000]，未评估时为空
	RiskCategory     RiskCategory     // 由 CurrentRiskScore 推导，有效数据中不独立设置
	LastAssessedAt   *time.Time       // 最近一次评估时间，未评估为空
	History          []RiskScore      // 历史评分，插入顺序即存储顺序
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewRiskProfile 创建未评估的画像（开户时评分缺失）
func NewRiskProfile(customerID string) *RiskProfile {
	return &RiskProfile{CustomerID: customerID}
}

// UpdateCategory 按当前评分刷新风险类别
// 评分缺失时保持原类别不变；幂等
func (p *RiskProfile) UpdateCategory() {
	if p.CurrentRiskScore == nil {
		return
	}
	p.RiskCategory = Classify(*p.CurrentRiskScore)
}

// RecordAssessment 记录一次评估：追加历史并刷新评分、类别与评估时间
func (p *RiskProfile) RecordAssessment(value decimal.Decimal, assessedAt time.Time) {
	at := assessedAt
	p.History = append(p.History, RiskScore{Value: value, AssessmentDate: &at})
	score := value
	p.CurrentRiskScore = &score
	p.LastAssessedAt = &at
	p.UpdateCategory()
}

// LatestScore 返回评估时间最大的历史条目
// 时间相同取先插入者；缺失评估时间的条目视为早于任何带时间的条目
// 历史为空返回 nil
func (p *RiskProfile) LatestScore() *RiskScore {
	var latest *RiskScore
	for i := range p.History {
		entry := &p.History[i]
		if latest == nil {
			latest = entry
			continue
		}
		if entry.AssessmentDate == nil {
			continue
		}
		if latest.AssessmentDate == nil || entry.AssessmentDate.After(*latest.AssessmentDate) {
			latest = entry
		}
	}
	return latest
}

// RequiresReassessment 判断画像是否需要重新评估
func (p *RiskProfile) RequiresReassessment(now time.Time) bool {
	return RequiresReassessment(p.RiskCategory, p.LastAssessedAt, now)
}
