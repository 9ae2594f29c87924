package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
)

type profileReadRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewProfileReadRepository(client redis.UniversalClient) domain.ProfileReadRepository {
	return &profileReadRepository{
		client: client,
		prefix: "riskprofile:",
		ttl:    30 * time.Minute,
	}
}

func (r *profileReadRepository) key(customerID string) string {
	return fmt.Sprintf("%sprofile:%s", r.prefix, customerID)
}

func (r *profileReadRepository) SaveProfile(ctx context.Context, profile *domain.RiskProfile) error {
	if profile == nil {
		return nil
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(profile.CustomerID), data, r.ttl).Err()
}

func (r *profileReadRepository) GetProfile(ctx context.Context, customerID string) (*domain.RiskProfile, error) {
	data, err := r.client.Get(ctx, r.key(customerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile domain.RiskProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileReadRepository) DeleteProfile(ctx context.Context, customerID string) error {
	return r.client.Del(ctx, r.key(customerID)).Err()
}
