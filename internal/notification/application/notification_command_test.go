package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwell/riskplatform/internal/notification/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryNotificationRepository 内存版通知存储
type memoryNotificationRepository struct {
	notifications map[string]*domain.Notification
}

func newMemoryNotificationRepository() *memoryNotificationRepository {
	return &memoryNotificationRepository{notifications: make(map[string]*domain.Notification)}
}

func (r *memoryNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	copied := *n
	r.notifications[n.NotificationID] = &copied
	return nil
}

func (r *memoryNotificationRepository) GetByNotificationID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	stored, ok := r.notifications[notificationID]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryNotificationRepository) ListByCustomerID(ctx context.Context, customerID string, status domain.NotificationStatus, limit, offset int) ([]*domain.Notification, error) {
	var result []*domain.Notification
	for _, n := range r.notifications {
		if n.CustomerID != customerID {
			continue
		}
		if status != "" && n.Status != status {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

// stubSender 可注入失败的发送通道
type stubSender struct {
	err   error
	calls int
}

func (s *stubSender) Send(ctx context.Context, target, subject, content string) error {
	s.calls++
	return s.err
}

func TestCreateAndDispatch(t *testing.T) {
	ctx := context.Background()

	setup := func(webhookErr error) (*NotificationCommandService, *memoryNotificationRepository, *stubSender, *stubSender) {
		repo := newMemoryNotificationRepository()
		inApp := &stubSender{}
		webhook := &stubSender{err: webhookErr}
		svc := NewNotificationCommandService(repo, map[domain.NotificationType]domain.Sender{
			domain.NotificationTypeInApp:   inApp,
			domain.NotificationTypeWebhook: webhook,
		}, testLogger())
		return svc, repo, inApp, webhook
	}

	t.Run("发送成功标记SENT", func(t *testing.T) {
		svc, _, _, webhook := setup(nil)

		dto, err := svc.CreateAndDispatch(ctx, CreateNotificationCommand{
			CustomerID: "CUST-1",
			Type:       string(domain.NotificationTypeWebhook),
			Category:   domain.CategoryCategoryChanged,
			Subject:    "风险类别变更",
			Target:     "https://hooks.example.com/risk",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.NotificationStatusSent), dto.Status)
		assert.NotZero(t, dto.SentAt)
		assert.Equal(t, 1, webhook.calls)
	})

	t.Run("发送失败保留FAILED记录不返回错误", func(t *testing.T) {
		svc, repo, _, _ := setup(errors.New("connection refused"))

		dto, err := svc.CreateAndDispatch(ctx, CreateNotificationCommand{
			CustomerID: "CUST-1",
			Type:       string(domain.NotificationTypeWebhook),
			Category:   domain.CategoryReassessmentDue,
			Target:     "https://hooks.example.com/risk",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.NotificationStatusFailed), dto.Status)
		assert.Equal(t, "connection refused", dto.ErrorMessage)

		stored, err := repo.GetByNotificationID(ctx, dto.NotificationID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, domain.NotificationStatusFailed, stored.Status)
	})

	t.Run("目标缺失降级为站内通知", func(t *testing.T) {
		svc, _, inApp, webhook := setup(nil)

		dto, err := svc.CreateAndDispatch(ctx, CreateNotificationCommand{
			CustomerID: "CUST-1",
			Type:       string(domain.NotificationTypeWebhook),
			Category:   domain.CategoryOnboarded,
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.NotificationTypeInApp), dto.Type)
		assert.Equal(t, 1, inApp.calls)
		assert.Zero(t, webhook.calls)
	})

	t.Run("客户标识缺失被拒绝", func(t *testing.T) {
		svc, _, _, _ := setup(nil)
		_, err := svc.CreateAndDispatch(ctx, CreateNotificationCommand{})
		assert.Error(t, err)
	})
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryNotificationRepository()
	svc := NewNotificationCommandService(repo, map[domain.NotificationType]domain.Sender{
		domain.NotificationTypeInApp: &stubSender{},
	}, testLogger())

	dto, err := svc.CreateAndDispatch(ctx, CreateNotificationCommand{
		CustomerID: "CUST-1",
		Category:   domain.CategoryOnboarded,
		Subject:    "欢迎开户",
	})
	require.NoError(t, err)

	read, err := svc.MarkRead(ctx, dto.NotificationID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.NotificationStatusRead), read.Status)

	_, err = svc.MarkRead(ctx, "NTF-404")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
