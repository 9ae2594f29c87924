package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReassessmentThresholdHours(t *testing.T) {
	assert.Equal(t, 24, ReassessmentThresholdHours(RiskCategoryHigh))
	assert.Equal(t, 72, ReassessmentThresholdHours(RiskCategoryMedium))
	assert.Equal(t, 168, ReassessmentThresholdHours(RiskCategoryLow))
	// 未知或缺失类别按 MEDIUM 处理
	assert.Equal(t, 72, ReassessmentThresholdHours(""))
	assert.Equal(t, 72, ReassessmentThresholdHours("UNKNOWN"))
}

func TestRequiresReassessment(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		at := now.Add(-d)
		return &at
	}

	tests := []struct {
		name     string
		category RiskCategory
		lastAt   *time.Time
		want     bool
	}{
		{"从未评估必须重评", RiskCategoryLow, nil, true},
		{"高风险23小时未到期", RiskCategoryHigh, ago(23 * time.Hour), false},
		{"高风险不足24整小时未到期", RiskCategoryHigh, ago(23*time.Hour + 59*time.Minute), false},
		{"高风险满24小时到期", RiskCategoryHigh, ago(24 * time.Hour), true},
		{"高风险超24小时到期", RiskCategoryHigh, ago(25 * time.Hour), true},
		{"中风险71小时未到期", RiskCategoryMedium, ago(71 * time.Hour), false},
		{"中风险满72小时到期", RiskCategoryMedium, ago(72 * time.Hour), true},
		{"低风险167小时未到期", RiskCategoryLow, ago(167 * time.Hour), false},
		{"低风险满168小时到期", RiskCategoryLow, ago(168 * time.Hour), true},
		{"类别缺失按中风险周期", "", ago(73 * time.Hour), true},
		{"类别缺失未满中风险周期", "", ago(71 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresReassessment(tt.category, tt.lastAt, now))
		})
	}
}
