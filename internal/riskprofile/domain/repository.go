package domain

import (
	"context"
	"time"
)

// ProfileRepository 画像主存储（MySQL），读取携带完整历史
type ProfileRepository interface {
	// WithTx 在事务中执行 fn，事务通过 context 向下游传递
	WithTx(ctx context.Context, fn func(txCtx context.Context) error) error
	Save(ctx context.Context, profile *RiskProfile) error
	// GetByCustomerID 未找到返回 (nil, nil)
	GetByCustomerID(ctx context.Context, customerID string) (*RiskProfile, error)
	// ListStale 按类别阈值分页扫描到期画像（含从未评估者），不加载历史
	ListStale(ctx context.Context, now time.Time, limit, offset int) ([]*RiskProfile, error)
	// Delete 删除画像并级联删除其全部历史
	Delete(ctx context.Context, customerID string) error
}

// ProfileReadRepository 画像读缓存（Redis）
type ProfileReadRepository interface {
	SaveProfile(ctx context.Context, profile *RiskProfile) error
	// GetProfile 缓存未命中返回 (nil, nil)
	GetProfile(ctx context.Context, customerID string) (*RiskProfile, error)
	DeleteProfile(ctx context.Context, customerID string) error
}
