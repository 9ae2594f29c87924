package consumer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwell/riskplatform/internal/riskprofile/application"
	"github.com/finwell/riskplatform/internal/riskprofile/domain"
)

type memoryRepository struct {
	profiles map[string]*domain.RiskProfile
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{profiles: make(map[string]*domain.RiskProfile)}
}

func (r *memoryRepository) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func (r *memoryRepository) Save(ctx context.Context, profile *domain.RiskProfile) error {
	copied := *profile
	r.profiles[profile.CustomerID] = &copied
	return nil
}

func (r *memoryRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.RiskProfile, error) {
	stored, ok := r.profiles[customerID]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryRepository) ListStale(ctx context.Context, now time.Time, limit, offset int) ([]*domain.RiskProfile, error) {
	return nil, nil
}

func (r *memoryRepository) Delete(ctx context.Context, customerID string) error {
	delete(r.profiles, customerID)
	return nil
}

func newHandler(repo *memoryRepository) *AssessmentHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	command := application.NewProfileCommandService(repo, nil, nil, logger)
	return NewAssessmentHandler(command, logger)
}

func TestHandleAssessmentCompleted(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	require.NoError(t, repo.Save(ctx, domain.NewRiskProfile("CUST-1")))
	handler := newHandler(repo)

	msg := kafka.Message{
		Topic: domain.AssessmentCompletedEventType,
		Key:   []byte("CUST-1"),
		Value: []byte(`{"customer_id":"CUST-1","score":"850","assessed_at":0}`),
	}
	require.NoError(t, handler.Handle(ctx, msg))

	stored, err := repo.GetByCustomerID(ctx, "CUST-1")
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentRiskScore)
	assert.Equal(t, "850", stored.CurrentRiskScore.String())
	assert.Equal(t, domain.RiskCategoryHigh, stored.RiskCategory)
}

func TestHandleAssessmentBadData(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	require.NoError(t, repo.Save(ctx, domain.NewRiskProfile("CUST-1")))
	handler := newHandler(repo)

	// 坏数据跳过不重试，消费位点继续推进
	tests := []struct {
		name  string
		value string
	}{
		{"评分格式非法", `{"customer_id":"CUST-1","score":"NaN-ish"}`},
		{"评分超出范围", `{"customer_id":"CUST-1","score":"1001"}`},
		{"客户不存在", `{"customer_id":"CUST-404","score":"500"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := kafka.Message{Topic: domain.AssessmentCompletedEventType, Value: []byte(tt.value)}
			assert.NoError(t, handler.Handle(ctx, msg))
		})
	}

	stored, err := repo.GetByCustomerID(ctx, "CUST-1")
	require.NoError(t, err)
	assert.Nil(t, stored.CurrentRiskScore)
	assert.Empty(t, stored.History)
}

func TestHandleUnknownTopic(t *testing.T) {
	handler := newHandler(newMemoryRepository())
	msg := kafka.Message{Topic: "unrelated.topic", Value: []byte(`{}`)}
	assert.NoError(t, handler.Handle(context.Background(), msg))
}
