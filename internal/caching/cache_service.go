package caching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService interface {
	// Principal caching. A miss returns (nil, nil).
	GetPrincipal(ctx context.Context, userID uuid.UUID) (*models.Principal, error)
	SetPrincipal(ctx context.Context, principal *models.Principal, ttl time.Duration) error
	DeletePrincipal(ctx context.Context, userID uuid.UUID) error

	// Access token deny-list, keyed by a hash of the raw token.
	RevokeToken(ctx context.Context, rawToken string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, rawToken string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

const keyPrefix = "schedulepro"

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to addr, which may be host:port or a
// redis:// / rediss:// URL.
func NewRedisCacheService(addr, password string, db int, logger *zap.Logger) (CacheService, error) {
	var opts *redis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
		if password != "" {
			opts.Password = password
		}
	} else {
		opts = &redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}
	}

	client := redis.NewClient(opts)

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn("redis ping failed on initialization", zap.String("address", opts.Addr), zap.Error(pingErr))
	} else {
		logger.Debug("redis connection established", zap.String("address", opts.Addr))
	}

	return NewRedisCacheServiceWithClient(client), nil
}

func NewRedisCacheServiceWithClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func principalKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:principal:%s", keyPrefix, userID.String())
}

func revokedKey(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return fmt.Sprintf("%s:revoked:%s", keyPrefix, hex.EncodeToString(sum[:]))
}

func (r *redisCacheService) GetPrincipal(ctx context.Context, userID uuid.UUID) (*models.Principal, error) {
	data, err := r.client.Get(ctx, principalKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var principal models.Principal
	if err := json.Unmarshal(data, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

func (r *redisCacheService) SetPrincipal(ctx context.Context, principal *models.Principal, ttl time.Duration) error {
	data, err := json.Marshal(principal)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, principalKey(principal.UserID), data, ttl).Err()
}

func (r *redisCacheService) DeletePrincipal(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, principalKey(userID)).Err()
}

// RevokeToken denies the token until ttl elapses. A non-positive ttl means
// the token has already expired and nothing is stored.
func (r *redisCacheService) RevokeToken(ctx context.Context, rawToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(rawToken), "1", ttl).Err()
}

func (r *redisCacheService) IsTokenRevoked(ctx context.Context, rawToken string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(rawToken)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
