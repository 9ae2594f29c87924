package domain

import (
	"strings"
	"time"
)

// Violation 校验失败的规则标识
type Violation string

const (
	ViolationMissingCustomerID     Violation = "MISSING_CUSTOMER_ID"
	ViolationScoreOutOfRange       Violation = "SCORE_OUT_OF_RANGE"
	ViolationCategoryScoreMismatch Violation = "CATEGORY_SCORE_MISMATCH"
	ViolationFutureTimestamp       Violation = "FUTURE_TIMESTAMP"
)

// ClockSkewTolerance 评估时间允许的时钟偏移
const ClockSkewTolerance = 60 * time.Second

// Validate 画像跨字段一致性校验，返回全部违反的规则
// 校验失败通过返回值表达，不触发 panic，由调用方决定处理方式
func (p *RiskProfile) Validate(now time.Time) []Violation {
	var violations []Violation

	if strings.TrimSpace(p.CustomerID) == "" {
		violations = append(violations, ViolationMissingCustomerID)
	}
	if p.CurrentRiskScore != nil {
		score := *p.CurrentRiskScore
		if score.LessThan(ScoreMin) || score.GreaterThan(ScoreMax) {
			violations = append(violations, ViolationScoreOutOfRange)
		}
		if p.RiskCategory != "" && p.RiskCategory != Classify(score) {
			violations = append(violations, ViolationCategoryScoreMismatch)
		}
	}
	if p.LastAssessedAt != nil && p.LastAssessedAt.After(now.Add(ClockSkewTolerance)) {
		violations = append(violations, ViolationFutureTimestamp)
	}

	return violations
}

// IsValid 所有校验规则均通过
func (p *RiskProfile) IsValid(now time.Time) bool {
	return len(p.Validate(now)) == 0
}
