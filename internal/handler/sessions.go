package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrOTPNotFound = errors.New("验证码不存在或已过期")

// SessionStore 保存重置密码的验证码和已注销的令牌
type SessionStore interface {
	SaveOTP(ctx context.Context, email, otp string, ttl time.Duration) error
	GetOTP(ctx context.Context, email string) (string, error)
	DeleteOTP(ctx context.Context, email string) error
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func otpKey(email string) string {
	return fmt.Sprintf("otp_%s_reset_password", email)
}

func revokedKey(jti string) string {
	return fmt.Sprintf("revoked_token_%s", jti)
}

func (s *RedisSessions) SaveOTP(ctx context.Context, email, otp string, ttl time.Duration) error {
	return s.rdb.Set(ctx, otpKey(email), otp, ttl).Err()
}

func (s *RedisSessions) GetOTP(ctx context.Context, email string) (string, error) {
	otp, err := s.rdb.Get(ctx, otpKey(email)).Result()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			return "", ErrOTPNotFound
		default:
			return "", err
		}
	}
	return otp, nil
}

func (s *RedisSessions) DeleteOTP(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, otpKey(email)).Err()
}

// RevokeToken 记录注销的令牌，过期时间与令牌本身一致
func (s *RedisSessions) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (s *RedisSessions) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
