package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scoreOf := func(s string) *decimal.Decimal {
		v := decimal.RequireFromString(s)
		return &v
	}
	timeOf := func(offset time.Duration) *time.Time {
		at := now.Add(offset)
		return &at
	}

	tests := []struct {
		name    string
		profile RiskProfile
		want    []Violation
	}{
		{
			name:    "新开户画像合法",
			profile: *NewRiskProfile("CUST-1"),
			want:    nil,
		},
		{
			name: "完整画像合法",
			profile: RiskProfile{
				CustomerID:       "CUST-1",
				CurrentRiskScore: scoreOf("500"),
				RiskCategory:     RiskCategoryMedium,
				LastAssessedAt:   timeOf(-time.Hour),
			},
			want: nil,
		},
		{
			name:    "客户标识缺失",
			profile: RiskProfile{},
			want:    []Violation{ViolationMissingCustomerID},
		},
		{
			name:    "客户标识仅空白同样视为缺失",
			profile: *NewRiskProfile("   "),
			want:    []Violation{ViolationMissingCustomerID},
		},
		{
			name: "评分超出上界",
			profile: RiskProfile{
				CustomerID:       "CUST-1",
				CurrentRiskScore: scoreOf("1001"),
				RiskCategory:     RiskCategoryHigh,
			},
			want: []Violation{ViolationScoreOutOfRange},
		},
		{
			name: "评分为负",
			profile: RiskProfile{
				CustomerID:       "CUST-1",
				CurrentRiskScore: scoreOf("-1"),
				RiskCategory:     RiskCategoryLow,
			},
			want: []Violation{ViolationScoreOutOfRange},
		},
		{
			name: "类别与评分不符",
			profile: RiskProfile{
				CustomerID:       "CUST-1",
				CurrentRiskScore: scoreOf("750"),
				RiskCategory:     RiskCategoryLow,
			},
			want: []Violation{ViolationCategoryScoreMismatch},
		},
		{
			name: "类别缺失不判为不符",
			profile: RiskProfile{
				CustomerID:       "CUST-1",
				CurrentRiskScore: scoreOf("750"),
			},
			want: nil,
		},
		{
			name: "评估时间显著超前",
			profile: RiskProfile{
				CustomerID:     "CUST-1",
				LastAssessedAt: timeOf(2 * time.Minute),
			},
			want: []Violation{ViolationFutureTimestamp},
		},
		{
			name: "时钟偏移容忍范围内合法",
			profile: RiskProfile{
				CustomerID:     "CUST-1",
				LastAssessedAt: timeOf(30 * time.Second),
			},
			want: nil,
		},
		{
			name: "多项规则同时违反",
			profile: RiskProfile{
				CurrentRiskScore: scoreOf("2000"),
				RiskCategory:     RiskCategoryLow,
				LastAssessedAt:   timeOf(time.Hour),
			},
			want: []Violation{
				ViolationMissingCustomerID,
				ViolationScoreOutOfRange,
				ViolationCategoryScoreMismatch,
				ViolationFutureTimestamp,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Validate(now))
			assert.Equal(t, len(tt.want) == 0, tt.profile.IsValid(now))
		})
	}
}
