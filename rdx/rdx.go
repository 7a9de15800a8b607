package rdx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens a client and pings the server.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return conn, nil
}

const revokedPrefix = "auth:revoked:"

func revokedKey(tokenID string) string {
	return revokedPrefix + tokenID
}

// TokenRevoker keeps logged-out token ids in Redis until the token expires.
type TokenRevoker struct {
	conn redis.Cmdable
	now  func() time.Time
}

func NewTokenRevoker(conn redis.Cmdable) *TokenRevoker {
	return &TokenRevoker{conn: conn, now: time.Now}
}

func (t *TokenRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(t.now())
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}
	return t.conn.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (t *TokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := t.conn.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
