package domain

import "time"

// 事件主题
const (
	ProfileOnboardedEventType    = "riskprofile.onboarded"
	AssessmentRecordedEventType  = "riskprofile.assessment.recorded"
	CategoryChangedEventType     = "riskprofile.category.changed"
	ReassessmentDueEventType     = "riskprofile.reassessment.due"
	ProfileErasedEventType       = "riskprofile.erased"
	AssessmentCompletedEventType = "risk.assessment.completed" // 评分引擎产出，本服务消费
)

// ProfileOnboardedEvent 客户开户建档事件
type ProfileOnboardedEvent struct {
	CustomerID string    `json:"customer_id"`
	CreatedAt  int64     `json:"created_at"`
	OccurredOn time.Time `json:"occurred_on"`
}

// AssessmentRecordedEvent 评估记录事件
type AssessmentRecordedEvent struct {
	CustomerID   string       `json:"customer_id"`
	Score        string       `json:"score"`
	RiskCategory RiskCategory `json:"risk_category"`
	AssessedAt   int64        `json:"assessed_at"`
	OccurredOn   time.Time    `json:"occurred_on"`
}

// CategoryChangedEvent 风险类别变更事件
type CategoryChangedEvent struct {
	CustomerID   string       `json:"customer_id"`
	FromCategory RiskCategory `json:"from_category"`
	ToCategory   RiskCategory `json:"to_category"`
	Score        string       `json:"score"`
	OccurredOn   time.Time    `json:"occurred_on"`
}

// ReassessmentDueEvent 画像到期待重评事件
type ReassessmentDueEvent struct {
	CustomerID     string       `json:"customer_id"`
	RiskCategory   RiskCategory `json:"risk_category"`
	LastAssessedAt int64        `json:"last_assessed_at"` // 0 表示从未评估
	OccurredOn     time.Time    `json:"occurred_on"`
}

// ProfileErasedEvent 客户数据删除事件（监管删除权）
type ProfileErasedEvent struct {
	CustomerID string    `json:"customer_id"`
	OccurredOn time.Time `json:"occurred_on"`
}
