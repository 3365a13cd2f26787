// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// ErrTooManyOTPRequests is returned when an address asked for too many codes
var ErrTooManyOTPRequests = errors.New("too many OTP requests, please try again later")

// GenerateNumericOTP returns a 6 digit code drawn uniformly from 100000-999999
func GenerateNumericOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}

const otpRequestWindow = time.Hour

// otpCounter is the subset of *redis.Client the request counter uses
type otpCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// ValidateOTPRequests counts OTP requests per address over a one hour
// window. A nil client or a non-positive limit disables the check.
func ValidateOTPRequests(ctx context.Context, rdb *redis.Client, email string, limit int) error {
	if rdb == nil {
		return nil
	}
	return countOTPRequests(ctx, rdb, email, limit)
}

func countOTPRequests(ctx context.Context, counter otpCounter, email string, limit int) error {
	if limit <= 0 {
		return nil
	}

	key := "otp_requests:" + email
	requests, err := counter.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	// Set expiry on the first request of the window
	if requests == 1 {
		if err := counter.Expire(ctx, key, otpRequestWindow).Err(); err != nil {
			return fmt.Errorf("failed to set OTP request window: %w", err)
		}
	}

	if requests > int64(limit) {
		// A counter left without an expiry would lock the address out for good
		if ttl, err := counter.TTL(ctx, key).Result(); err == nil && ttl < 0 {
			if err := counter.Expire(ctx, key, otpRequestWindow).Err(); err != nil {
				return fmt.Errorf("failed to set OTP request window: %w", err)
			}
		}
		return ErrTooManyOTPRequests
	}

	return nil
}
