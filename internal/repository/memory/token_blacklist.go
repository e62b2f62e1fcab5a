package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklistRepository records revoked bearer tokens in Redis.
// The entry expires with the token itself, so no cleanup is needed.
type TokenBlacklistRepository struct {
	client *redis.Client
}

func NewTokenBlacklistRepository(client *redis.Client) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{client: client}
}

func (r *TokenBlacklistRepository) key(userID string) string {
	return fmt.Sprintf("token_blacklist:%s", userID)
}

func (r *TokenBlacklistRepository) Blacklist(ctx context.Context, userID, token string, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	return r.client.Set(ctx, r.key(userID), token, ttl).Err()
}

func (r *TokenBlacklistRepository) IsBlacklisted(ctx context.Context, userID, token string) (bool, error) {
	if r.client == nil {
		return false, nil
	}
	stored, err := r.client.Get(ctx, r.key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return stored == token, nil
}
