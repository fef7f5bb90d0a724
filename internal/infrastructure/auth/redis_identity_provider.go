// Package auth resolves bearer tokens into callers using Redis.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	"github.com/Anggit1/Toko-baju/internal/domain/service"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is prepended to the token hash to form the Redis key
const DefaultKeyPrefix = "access_token:"

const tokenBytes = 32

// RedisIdentityProvider stores access tokens as Redis hashes keyed by the
// SHA-256 of the token. The plain token is never stored.
type RedisIdentityProvider struct {
	client    redis.Cmdable
	keyPrefix string
	now       func() time.Time
}

// NewRedisIdentityProvider creates a provider. An empty prefix uses DefaultKeyPrefix.
func NewRedisIdentityProvider(client redis.Cmdable, keyPrefix string) *RedisIdentityProvider {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisIdentityProvider{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

func (p *RedisIdentityProvider) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return p.keyPrefix + hex.EncodeToString(sum[:])
}

// ResolveToken looks up the caller a token was issued to
func (p *RedisIdentityProvider) ResolveToken(ctx context.Context, token string) (*entity.Caller, error) {
	fields, err := p.client.HGetAll(ctx, p.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to look up access token: %w", err)
	}
	if len(fields) == 0 {
		return nil, service.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id", service.ErrInvalidToken)
	}

	isAdmin, err := entity.ParseAdminFlag(fields["is_admin"])
	if err != nil {
		return nil, err
	}

	return &entity.Caller{ID: userID, IsAdmin: isAdmin}, nil
}

// IssueToken creates a new token for caller. A zero ttl never expires.
func (p *RedisIdentityProvider) IssueToken(ctx context.Context, caller entity.Caller, ttl time.Duration) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(raw)
	key := p.key(token)

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"user_id":    strconv.FormatInt(caller.ID, 10),
			"is_admin":   entity.FormatAdminFlag(caller.IsAdmin),
			"created_at": p.now().Unix(),
		})
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to store access token: %w", err)
	}
	return token, nil
}

// RevokeToken deletes a token. Revoking an unknown token is not an error.
func (p *RedisIdentityProvider) RevokeToken(ctx context.Context, token string) error {
	if err := p.client.Del(ctx, p.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

// Connect parses a redis:// URL and verifies the server answers a PING
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
