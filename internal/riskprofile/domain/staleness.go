package domain

import "time"

// 各风险类别的重评周期（小时）
// 类别缺失按 MEDIUM 处理，业务规则待产品确认，集中在 defaultCategory 以便调整
const (
	reassessHoursHigh   = 24
	reassessHoursMedium = 72
	reassessHoursLow    = 168
)

const defaultCategory = RiskCategoryMedium

// ReassessmentThresholdHours 返回指定类别的重评阈值（小时）
func ReassessmentThresholdHours(category RiskCategory) int {
	switch category {
	case RiskCategoryHigh:
		return reassessHoursHigh
	case RiskCategoryLow:
		return reassessHoursLow
	case RiskCategoryMedium:
		return reassessHoursMedium
	default:
		return ReassessmentThresholdHours(defaultCategory)
	}
}

// RequiresReassessment 判断是否需要重新评估
// 从未评估必须评估；已评估按整小时截断计算间隔，达到阈值（含相等）即过期
func RequiresReassessment(category RiskCategory, lastAssessedAt *time.Time, now time.Time) bool {
	if lastAssessedAt == nil {
		return true
	}
	elapsedHours := int(now.Sub(*lastAssessedAt).Hours())
	return elapsedHours >= ReassessmentThresholdHours(category)
}
