package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cemcalis/chiptunnig/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyLoginEmail = "login:email:%s"
	keyLoginIP    = "login:ip:%s"
)

// ErrRateLimited is returned when a caller exhausted their bucket.
var ErrRateLimited = errors.New("too many attempts")

// LoginLimiter throttles credential guessing per email and per source
// address. Disabled configs yield a nil limiter; callers treat nil as
// always-allow.
type LoginLimiter struct {
	enabled bool

	bucket *TokenBucket

	rate  float64
	burst int
}

func NewLoginLimiter(cfg config.Config) (*LoginLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if cfg.LoginRate <= 0 || cfg.LoginBurst <= 0 {
		return nil, errors.New("login rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &LoginLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    cfg.LoginRate,
		burst:   cfg.LoginBurst,
	}, nil
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowLogin checks both buckets; one empty bucket denies the attempt.
func (l *LoginLimiter) AllowLogin(ctx context.Context, email, ip string) error {
	if !l.Enabled() {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		ok, err := l.bucket.Allow(ctx, fmt.Sprintf(keyLoginEmail, email), l.rate, l.burst)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRateLimited
		}
	}

	ip = strings.TrimSpace(ip)
	if ip != "" {
		ok, err := l.bucket.Allow(ctx, fmt.Sprintf(keyLoginIP, ip), l.rate, l.burst)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRateLimited
		}
	}
	return nil
}
